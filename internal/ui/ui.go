// Package ui runs the interactive annotation window on shiny. The window
// shows the capture scaled to fit, routes pointer events into the annotation
// state machine and repaints through the shared renderer, so the preview and
// the export are drawn by the same code.
package ui

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"os"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	xdraw "golang.org/x/image/draw"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/canvas"
	"github.com/example/snapmark/internal/clipboard"
	"github.com/example/snapmark/internal/config"
	"github.com/example/snapmark/internal/geom"
	"github.com/example/snapmark/internal/imagecache"
	"github.com/example/snapmark/internal/notify"
	"github.com/example/snapmark/internal/render"
)

// palette is the stroke color cycle, bound to the number keys.
var palette = []struct {
	Name  string
	Color color.RGBA
}{
	{"red", color.RGBA{224, 49, 49, 255}},
	{"orange", color.RGBA{247, 131, 34, 255}},
	{"yellow", color.RGBA{252, 196, 25, 255}},
	{"green", color.RGBA{47, 158, 68, 255}},
	{"blue", color.RGBA{28, 113, 216, 255}},
	{"purple", color.RGBA{134, 46, 156, 255}},
	{"black", color.RGBA{25, 25, 28, 255}},
	{"white", color.RGBA{250, 250, 250, 255}},
}

func colorAt(idx int) color.RGBA {
	if idx < 0 || idx >= len(palette) {
		return palette[0].Color
	}
	return palette[idx].Color
}

// toolKeys maps plain key presses to tools.
var toolKeys = map[rune]annotation.Tool{
	'a': annotation.ToolStraightArrow,
	'w': annotation.ToolCurvedArrow,
	'l': annotation.ToolLine,
	'r': annotation.ToolRect,
	'o': annotation.ToolEllipse,
	'f': annotation.ToolFreehand,
	'h': annotation.ToolHighlighter,
	'b': annotation.ToolBlur,
	'm': annotation.ToolMagnifier,
	'i': annotation.ToolImageOverlay,
	't': annotation.ToolText,
	'n': annotation.ToolNumberBadge,
	'g': annotation.ToolTypingIndicator,
	'c': annotation.ToolCursor,
	'p': annotation.ToolPointer,
}

// Session is one interactive editing session over a captured or opened image.
type Session struct {
	Source  *image.RGBA
	Output  string
	Overlay string // image file placed by the overlay tool
	Config  *config.Config
	Notify  *notify.Notifier
	OnClose func(annotations []annotation.Annotation)

	editor  *annotation.Editor
	machine *annotation.Machine
	images  *imagecache.Cache
}

// Run opens the window and blocks until it closes.
func (s *Session) Run() { driver.Main(s.main) }

func (s *Session) main(scr screen.Screen) {
	if s.Config == nil {
		s.Config = config.New()
	}
	srcBounds := s.Source.Bounds()
	winW, winH := fitWindow(srcBounds.Dx(), srcBounds.Dy())

	w, err := scr.NewWindow(&screen.NewWindowOptions{
		Width:  winW,
		Height: winH,
		Title:  "SnapMark",
	})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()

	s.editor, s.machine = s.buildMachine(canvas.Sz(float64(winW), float64(winH)))
	s.images = imagecache.New(func(string) { w.Send(paint.Event{}) })
	s.machine.SetOverlaySizer(s.images.Size)
	if s.Overlay != "" {
		s.images.Image(s.Overlay)
	}

	var (
		display    = canvas.Sz(float64(winW), float64(winH))
		scaledBase *image.RGBA
		buf        screen.Buffer
		colorIdx   int
		message    string
		messageAt  time.Time

		textActive bool
		textBuf    []rune
	)
	s.machine.OnTextRequest(func(geom.Point) {
		textActive = true
		textBuf = textBuf[:0]
	})

	rebuild := func(sz image.Point) {
		if buf != nil {
			buf.Release()
			buf = nil
		}
		if sz.X < 1 || sz.Y < 1 {
			return
		}
		display = canvas.Sz(float64(sz.X), float64(sz.Y))
		s.machine.SetDisplay(display)

		scaledBase = image.NewRGBA(image.Rect(0, 0, sz.X, sz.Y))
		xdraw.CatmullRom.Scale(scaledBase, scaledBase.Bounds(), s.Source, srcBounds, draw.Src, nil)

		b, err := scr.NewBuffer(sz)
		if err != nil {
			log.Printf("new buffer: %v", err)
			return
		}
		buf = b
	}

	repaint := func() {
		if buf == nil || scaledBase == nil {
			return
		}
		dst := buf.RGBA()
		copy(dst.Pix, scaledBase.Pix)

		r := render.Renderer{
			Base:        scaledBase,
			Display:     display,
			Interactive: true,
			Images:      s.images,
		}
		r.Render(dst, s.editor.Annotations())
		if cur := s.editor.Current(); cur != nil {
			r.RenderOne(dst, cur)
		}
		if textActive {
			render.DrawString(dst, "text: "+string(textBuf)+"_",
				geom.Pt(12, display.Height-14), colorAt(colorIdx), 16)
		} else if message != "" && time.Since(messageAt) < 2*time.Second {
			render.DrawString(dst, message,
				geom.Pt(12, display.Height-14), colorAt(colorIdx), 16)
		}
		w.Upload(image.Point{}, buf, buf.Bounds())
		w.Publish()
	}

	note := func(format string, args ...interface{}) {
		message = fmt.Sprintf(format, args...)
		messageAt = time.Now()
		log.Print(message)
	}

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				if buf != nil {
					buf.Release()
				}
				if s.OnClose != nil {
					s.OnClose(s.editor.Annotations())
				}
				return
			}

		case size.Event:
			rebuild(e.Size())
			repaint()

		case paint.Event:
			repaint()

		case mouse.Event:
			p := geom.Pt(float64(e.X), float64(e.Y))
			constrain := e.Modifiers&key.ModShift != 0
			switch e.Direction {
			case mouse.DirPress:
				if e.Button == mouse.ButtonLeft {
					s.machine.PointerDown(p, constrain)
				}
			case mouse.DirRelease:
				if e.Button == mouse.ButtonLeft {
					s.machine.PointerUp(p, constrain)
				}
			default:
				s.machine.PointerMove(p, constrain)
			}
			w.Send(paint.Event{})

		case key.Event:
			if e.Direction == key.DirRelease {
				continue
			}
			if textActive {
				switch {
				case e.Code == key.CodeReturnEnter:
					textActive = false
					s.machine.CommitText(string(textBuf))
				case e.Code == key.CodeEscape:
					textActive = false
					s.machine.CancelText()
				case e.Code == key.CodeDeleteBackspace:
					if len(textBuf) > 0 {
						textBuf = textBuf[:len(textBuf)-1]
					}
				case e.Rune > 0 && e.Rune != '\n':
					textBuf = append(textBuf, e.Rune)
				}
				w.Send(paint.Event{})
				continue
			}

			switch {
			case e.Code == key.CodeEscape:
				if s.OnClose != nil {
					s.OnClose(s.editor.Annotations())
				}
				return

			case e.Modifiers&key.ModControl != 0 && e.Rune == 'z':
				s.editor.Undo()
			case e.Modifiers&key.ModControl != 0 && (e.Rune == 'y' || e.Rune == 'Z'):
				s.editor.Redo()
			case e.Modifiers&key.ModControl != 0 && e.Rune == 's':
				if err := s.save(); err != nil {
					note("save: %v", err)
				} else {
					note("saved %s", s.Output)
				}
			case e.Modifiers&key.ModControl != 0 && e.Rune == 'c':
				if err := s.copyToClipboard(); err != nil {
					note("copy: %v", err)
				} else {
					note("copied to clipboard")
					if s.Notify != nil {
						s.Notify.Copy(s.Output)
					}
				}

			case e.Rune >= '1' && e.Rune <= '8':
				colorIdx = int(e.Rune - '1')
				st := s.machine.Style()
				st.Color = colorAt(colorIdx)
				s.machine.SetStyle(st)
				note("color: %s", palette[colorIdx].Name)

			case e.Rune == '+' || e.Rune == '=':
				st := s.machine.Style()
				st.StrokeWidth++
				s.machine.SetStyle(st)
				note("stroke width: %g", st.StrokeWidth)
			case e.Rune == '-':
				st := s.machine.Style()
				if st.StrokeWidth > 1 {
					st.StrokeWidth--
				}
				s.machine.SetStyle(st)
				note("stroke width: %g", st.StrokeWidth)

			default:
				if tool, ok := toolKeys[e.Rune]; ok {
					s.machine.SetTool(tool)
					note("tool: %s", tool)
				}
			}
			w.Send(paint.Event{})
		}
	}
}

// save exports the annotated image at source resolution to Output.
func (s *Session) save() error {
	if s.Output == "" {
		return fmt.Errorf("no output path configured")
	}
	out := s.export()
	f, err := os.Create(s.Output)
	if err != nil {
		return err
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if s.Notify != nil {
		s.Notify.Save(s.Output)
	}
	return nil
}

func (s *Session) copyToClipboard() error {
	return clipboard.WriteImage(s.export())
}

func (s *Session) export() *image.RGBA {
	opts := render.ExportOptions{Images: s.images}
	if s.Config != nil && s.Config.Export.Background {
		bg := render.BackgroundOptions{
			Padding:      s.Config.Export.Padding,
			Color:        s.Config.Export.Color,
			CornerRadius: s.Config.Export.CornerRadius,
			Shadow:       s.Config.Export.Shadow,
		}
		opts.Background = &bg
	}
	return render.Export(s.Source, s.editor.Annotations(), opts)
}

// buildMachine assembles the editor and pointer machine for a display size,
// applying the configured style and any preselected overlay image.
func (s *Session) buildMachine(display canvas.Size) (*annotation.Editor, *annotation.Machine) {
	if s.Config == nil {
		s.Config = config.New()
	}
	editor := annotation.NewEditor()
	m := annotation.NewMachine(editor, display)
	m.SetStyle(styleFromConfig(s.Config))
	if s.Overlay != "" {
		m.SetOverlayImage(s.Overlay)
	}
	return editor, m
}

func styleFromConfig(cfg *config.Config) annotation.Style {
	return annotation.Style{
		Color:        cfg.Style.Color,
		StrokeWidth:  cfg.Style.StrokeWidth,
		FontSize:     cfg.Style.FontSize,
		BlurStrength: cfg.Style.BlurStrength,
	}
}

// fitWindow caps the initial window at a comfortable desktop size while
// keeping the source aspect ratio.
func fitWindow(w, h int) (int, int) {
	const maxW, maxH = 1600, 1000
	if w <= maxW && h <= maxH {
		return w, h
	}
	fit := geom.AspectFit(float64(w), float64(h),
		geom.Rect{Max: geom.Pt(maxW, maxH)})
	return int(fit.Width()), int(fit.Height())
}
