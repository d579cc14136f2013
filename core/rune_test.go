package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Silemae70/TheEyeOfCthulhu-sub000/match"
)

// testCraft wraps functions as a Craft.
type testCraft struct {
	divine func(ctx context.Context, rc *RuneContext, r *Rune) (Vision, error)
	check  func(r *Rune) error
}

func (c *testCraft) Divine(ctx context.Context, rc *RuneContext, r *Rune) (Vision, error) {
	return c.divine(ctx, rc, r)
}

func (c *testCraft) Check(r *Rune) error {
	if c.check == nil {
		return nil
	}
	return c.check(r)
}

func frame() *match.Raster {
	return match.NewRaster(640, 480)
}

func TestRuneDisabled(t *testing.T) {
	r := &Rune{
		Name:     "check",
		Disabled: true,
		Craft: &testCraft{
			divine: func(ctx context.Context, rc *RuneContext, r *Rune) (Vision, error) {
				t.Fatal("craft of a disabled rune ran")
				return Vision{}, nil
			},
		},
	}

	v := r.Execute(context.Background(), NewRuneContext(frame()))
	if v.State != Dormant {
		t.Fatalf("got %s", v.State)
	}
	if v.Elapsed != 0 {
		t.Fatal("disabled rune should not be timed")
	}
}

func TestRuneNoImage(t *testing.T) {
	r := &Rune{
		Name: "check",
		Craft: &testCraft{
			divine: func(ctx context.Context, rc *RuneContext, r *Rune) (Vision, error) {
				t.Fatal("craft ran without an image")
				return Vision{}, nil
			},
		},
	}

	v := r.Execute(context.Background(), &RuneContext{})
	if v.State != Void {
		t.Fatalf("got %s", v.State)
	}
	if v.Message != "no image in context" {
		t.Fatalf("got message %q", v.Message)
	}
}

func TestRunePanicBecomesVoid(t *testing.T) {
	r := &Rune{
		Name: "check",
		Craft: &testCraft{
			divine: func(ctx context.Context, rc *RuneContext, r *Rune) (Vision, error) {
				panic("matcher blew up")
			},
		},
	}

	v := r.Execute(context.Background(), NewRuneContext(frame()))
	if v.State != Void {
		t.Fatalf("got %s", v.State)
	}
	if v.Message != "matcher blew up" {
		t.Fatalf("got message %q", v.Message)
	}
}

func TestRuneErrorBecomesVoid(t *testing.T) {
	r := &Rune{
		Name: "check",
		Craft: &testCraft{
			divine: func(ctx context.Context, rc *RuneContext, r *Rune) (Vision, error) {
				return Vision{}, errors.New("matcher failed")
			},
		},
	}

	v := r.Execute(context.Background(), NewRuneContext(frame()))
	if v.State != Void || v.Message != "matcher failed" {
		t.Fatalf("got %s %q", v.State, v.Message)
	}
}

func TestRuneTiming(t *testing.T) {
	r := &Rune{
		Name: "check",
		Craft: &testCraft{
			divine: func(ctx context.Context, rc *RuneContext, r *Rune) (Vision, error) {
				time.Sleep(5 * time.Millisecond)
				return NewAwakened(r.Name, 1, ""), nil
			},
		},
	}

	v := r.Execute(context.Background(), NewRuneContext(frame()))
	if v.Elapsed < 5*time.Millisecond {
		t.Fatalf("elapsed %v too small", v.Elapsed)
	}
}

func TestRuneValidate(t *testing.T) {
	craft := &testCraft{
		divine: func(ctx context.Context, rc *RuneContext, r *Rune) (Vision, error) {
			return NewAwakened(r.Name, 1, ""), nil
		},
	}

	if err := (&Rune{Name: "", Craft: craft}).Validate(); err == nil {
		t.Fatal("empty name should not validate")
	}
	if err := (&Rune{Name: "x", MinResonance: 1.5, Craft: craft}).Validate(); err == nil {
		t.Fatal("threshold above 1 should not validate")
	}
	if err := (&Rune{Name: "x", MinResonance: -0.1, Craft: craft}).Validate(); err == nil {
		t.Fatal("negative threshold should not validate")
	}
	if err := (&Rune{Name: "x"}).Validate(); err == nil {
		t.Fatal("craft-less rune should not validate")
	}
	if err := (&Rune{Name: "x", MinResonance: 0.5, Craft: craft}).Validate(); err != nil {
		t.Fatal(err)
	}

	craft.check = func(r *Rune) error {
		return &BadRune{r, "no pattern configured"}
	}
	if err := (&Rune{Name: "x", Craft: craft}).Validate(); err == nil {
		t.Fatal("craft check should have failed")
	}
}
