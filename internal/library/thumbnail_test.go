package library

import (
	"errors"
	"image/color"
	"path/filepath"
	"testing"
)

func TestGeneratePlaceholderOnOpenFailure(t *testing.T) {
	opener := newFakeOpener(3)
	path := filepath.Join(t.TempDir(), "broken.pdf")
	opener.failPaths[path] = true

	gen := NewGenerator(NewCache(t.TempDir(), true), opener)
	thumb := gen.Generate(path, 0, 100, 140)

	if !thumb.Placeholder {
		t.Error("unopenable document should yield a placeholder")
	}
	b := thumb.Image.Bounds()
	if b.Dx() != 100 || b.Dy() != 140 {
		t.Errorf("placeholder size = %dx%d, want 100x140", b.Dx(), b.Dy())
	}
}

func TestGeneratePlaceholderOnZeroPages(t *testing.T) {
	opener := newFakeOpener(0)
	path := writeTestPDF(t, t.TempDir(), "empty.pdf")

	gen := NewGenerator(NewCache(t.TempDir(), true), opener)
	thumb := gen.Generate(path, 0, 100, 140)

	if !thumb.Placeholder {
		t.Error("zero-page document should yield a placeholder")
	}
}

func TestGeneratePlaceholderOnRenderError(t *testing.T) {
	opener := newFakeOpener(3)
	opener.renderErr = errors.New("render failed")
	path := writeTestPDF(t, t.TempDir(), "bad.pdf")

	gen := NewGenerator(NewCache(t.TempDir(), true), opener)
	thumb := gen.Generate(path, 0, 100, 140)
	if !thumb.Placeholder {
		t.Error("render failure should yield a placeholder")
	}
	b := thumb.Image.Bounds()
	if b.Dx() != 100 || b.Dy() != 140 {
		t.Errorf("placeholder size = %dx%d, want 100x140", b.Dx(), b.Dy())
	}
}

func TestGenerateFitsWithinBounds(t *testing.T) {
	opener := newFakeOpener(3)
	path := writeTestPDF(t, t.TempDir(), "doc.pdf")

	gen := NewGenerator(NewCache(t.TempDir(), true), opener)
	thumb := gen.Generate(path, 0, 100, 140)

	if thumb.Placeholder {
		t.Fatal("expected a real thumbnail")
	}
	b := thumb.Image.Bounds()
	if b.Dx() > 100 || b.Dy() > 140 {
		t.Errorf("thumbnail %dx%d exceeds 100x140", b.Dx(), b.Dy())
	}
	if b.Dx() == 0 || b.Dy() == 0 {
		t.Error("thumbnail has a zero dimension")
	}

	// Source pages are 200x300, so the height is the binding dimension:
	// 140 tall means round(200*140/300) wide.
	if b.Dy() != 140 {
		t.Errorf("height = %d, want 140", b.Dy())
	}
}

func TestGenerateClampsPage(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		wantPage int
	}{
		{"past the end", 10, 2},
		{"negative", -5, 0},
		{"in range", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opener := newFakeOpener(3)
			path := writeTestPDF(t, t.TempDir(), "doc.pdf")
			gen := NewGenerator(NewCache(t.TempDir(), true), opener)

			thumb := gen.Generate(path, tt.page, 100, 140)
			if thumb.Placeholder {
				t.Fatal("expected a real thumbnail")
			}

			opener.mu.Lock()
			rendered := opener.docs[len(opener.docs)-1].renderedPage
			opener.mu.Unlock()
			if rendered != tt.wantPage {
				t.Errorf("rendered page = %d, want %d", rendered, tt.wantPage)
			}
		})
	}
}

func TestGenerateUsesCache(t *testing.T) {
	opener := newFakeOpener(3)
	path := writeTestPDF(t, t.TempDir(), "doc.pdf")
	gen := NewGenerator(NewCache(t.TempDir(), true), opener)

	first := gen.Generate(path, 0, 100, 140)
	if first.FromCache {
		t.Error("first generation should not come from cache")
	}

	second := gen.Generate(path, 0, 100, 140)
	if !second.FromCache {
		t.Error("second generation should come from cache")
	}
	if got := opener.openCount(); got != 1 {
		t.Errorf("document opened %d times, want 1", got)
	}
}

func TestGeneratePanicsOnInvalidSize(t *testing.T) {
	gen := NewGenerator(NewCache(t.TempDir(), true), newFakeOpener(1))

	defer func() {
		if recover() == nil {
			t.Error("expected panic for non-positive size")
		}
	}()
	gen.Generate("whatever.pdf", 0, 0, 140)
}

func TestPlaceholderColor(t *testing.T) {
	img := Placeholder(40, 56)

	b := img.Bounds()
	if b.Dx() != 40 || b.Dy() != 56 {
		t.Fatalf("placeholder size = %dx%d, want 40x56", b.Dx(), b.Dy())
	}

	got := color.NRGBAModel.Convert(img.At(20, 28)).(color.NRGBA)
	want := color.NRGBA{R: 0xd3, G: 0xd3, B: 0xd3, A: 0xff}
	if got != want {
		t.Errorf("placeholder color = %v, want %v", got, want)
	}
}
