package led

import "github.com/rs/zerolog"

// Sim keeps the last frame and logs a compact summary, useful headless.
type Sim struct {
	Frames int
	Last   []byte
	// Every logs one summary per this many frames; 0 disables logging.
	Every int
	Log   zerolog.Logger
}

func (s *Sim) Write(rgb []byte) error {
	s.Frames++
	s.Last = append(s.Last[:0], rgb...)
	if s.Every <= 0 || s.Frames%s.Every != 0 || len(rgb) < 3 {
		return nil
	}
	var r, g, b int
	for i := 0; i+2 < len(rgb); i += 3 {
		r += int(rgb[i])
		g += int(rgb[i+1])
		b += int(rgb[i+2])
	}
	n := len(rgb) / 3
	s.Log.Debug().
		Int("frame", s.Frames).
		Ints("avg", []int{r / n, g / n, b / n}).
		Ints("first", []int{int(rgb[0]), int(rgb[1]), int(rgb[2])}).
		Msg("sim frame")
	return nil
}

func (s *Sim) Close() error { return nil }
