package selftest

import (
	"testing"

	"github.com/coreman2200/powerring/internal/render"
)

func TestIndexSweep(t *testing.T) {
	r := NewRunner(Plan{Kind: IndexSweep})
	buf := make([]render.Color, 3)
	for want := 0; want < 3; want++ {
		if !r.Step(buf) {
			t.Fatalf("sweep ended early at %d", want)
		}
		for i, c := range buf {
			if lit := c.R == 1; lit != (i == want) {
				t.Fatalf("step %d: led %d lit=%v", want, i, lit)
			}
		}
	}
	if r.Step(buf) {
		t.Fatalf("expected sweep to finish")
	}
}

func TestRGBChannelsHold(t *testing.T) {
	r := NewRunner(Plan{Kind: RGBTest, Hold: 2})
	buf := make([]render.Color, 2)
	frames := 0
	for r.Step(buf) {
		frames++
		if frames > 10 {
			t.Fatalf("runner never finished")
		}
	}
	if frames != 6 {
		t.Fatalf("expected 3 channels x 2 frames, got %d", frames)
	}
	if buf[0] != (render.Color{}) {
		t.Fatalf("finished runner should leave the strip dark, got %#v", buf[0])
	}
}

func TestCompass(t *testing.T) {
	r := NewRunner(Plan{Kind: Compass})
	buf := make([]render.Color, 8)
	if !r.Step(buf) {
		t.Fatalf("compass should show one frame")
	}
	if buf[0].R != 1 || buf[2].G != 1 || buf[4].G != 1 || buf[6].G != 1 || buf[1] != (render.Color{}) {
		t.Fatalf("unexpected compass pattern %#v", buf)
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(" RGB_Channels "); err != nil || k != RGBTest {
		t.Fatalf("got %v %v", k, err)
	}
	if _, err := ParseKind("plane_z"); err == nil {
		t.Fatalf("expected error")
	}
}
