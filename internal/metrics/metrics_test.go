package metrics

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestEvaluate_KnownLabels(t *testing.T) {
	trueLabels := []string{"cat", "dog", "dog", "cat", "bird", "bird", "dog", "cat", "dog", "bird"}
	predLabels := []string{"cat", "dog", "dog", "cat", "dog", "bird", "bird", "cat", "dog", "bird"}

	ev, err := Evaluate(trueLabels, predLabels, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(ev.Classes, []string{"bird", "cat", "dog"}) {
		t.Fatalf("unexpected class order: %v", ev.Classes)
	}
	if !approx(ev.Accuracy, 0.8) {
		t.Errorf("accuracy: want 0.8, got %g", ev.Accuracy)
	}
	if ev.Support != 10 {
		t.Errorf("support: want 10, got %d", ev.Support)
	}

	// rows actual, cols predicted; order bird, cat, dog
	wantMatrix := [][]int{
		{2, 0, 1},
		{0, 3, 0},
		{1, 0, 3},
	}
	if !reflect.DeepEqual(ev.Matrix, wantMatrix) {
		t.Fatalf("confusion matrix: want %v, got %v", wantMatrix, ev.Matrix)
	}

	// cat is perfectly classified
	cat := ev.PerClass[1]
	if !approx(cat.Precision, 1) || !approx(cat.Recall, 1) || !approx(cat.F1, 1) || cat.Support != 3 {
		t.Errorf("unexpected cat stats: %+v", cat)
	}

	bird := ev.PerClass[0]
	if !approx(bird.Precision, 2.0/3.0) || !approx(bird.Recall, 2.0/3.0) {
		t.Errorf("unexpected bird stats: %+v", bird)
	}
}

func TestEvaluate_LengthMismatch(t *testing.T) {
	if _, err := Evaluate([]string{"a", "b"}, []string{"a"}, nil); err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestEvaluate_EmptyInput(t *testing.T) {
	if _, err := Evaluate(nil, nil, nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestEvaluate_LabelOutsideClassList(t *testing.T) {
	_, err := Evaluate([]string{"cat"}, []string{"lizard"}, []string{"cat", "dog"})
	if err == nil {
		t.Fatal("expected error for label outside class list")
	}
}

func TestEvaluate_ZeroDenominator(t *testing.T) {
	// "dog" never predicted: precision must be 0, not NaN
	ev, err := Evaluate([]string{"dog", "cat"}, []string{"cat", "cat"}, []string{"cat", "dog"})
	if err != nil {
		t.Fatal(err)
	}
	dog := ev.PerClass[1]
	if dog.Precision != 0 || dog.Recall != 0 || dog.F1 != 0 {
		t.Errorf("unexpected dog stats: %+v", dog)
	}
}

func TestWriteText(t *testing.T) {
	ev, err := Evaluate(
		[]string{"cat", "dog", "cat", "dog"},
		[]string{"cat", "dog", "dog", "dog"},
		nil,
	)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	WriteText(&buf, ev, false)
	out := buf.String()

	for _, want := range []string{"Confusion Matrix", "Classification Report", "accuracy", "macro avg", "cat", "dog"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("color disabled but output contains escape codes")
	}
}

func TestReadLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.txt")
	if err := os.WriteFile(path, []byte("cat\n\n  dog  \ncat\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	labels, err := ReadLabels(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(labels, []string{"cat", "dog", "cat"}) {
		t.Errorf("unexpected labels: %v", labels)
	}

	if _, err := ReadLabels(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
