package split

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

// makeClass creates a class directory with n sequentially named images.
func makeClass(t *testing.T, dataDir, class string, n int) {
	t.Helper()
	dir := filepath.Join(dataDir, class)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, fmt.Sprintf("img-%02d.jpg", i))
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// dirNames returns the sorted file names in dir, or nil if it does not exist.
func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func seedPtr(v int64) *int64 { return &v }

func TestParseRatio(t *testing.T) {
	r, err := ParseRatio("0.8, 0.1, 0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Train != 0.8 || r.Val != 0.1 || r.Test != 0.1 {
		t.Errorf("unexpected ratio: %+v", r)
	}

	for _, bad := range []string{"", "0.8,0.2", "0.8,0.1,0.1,0", "a,b,c", "0.7,0.2,0.05", "-0.1,1.0,0.1"} {
		if _, err := ParseRatio(bad); err == nil {
			t.Errorf("ParseRatio(%q): expected error", bad)
		}
	}
}

func TestRatioValidate_SumTolerance(t *testing.T) {
	// 0.7+0.2+0.1 is not exactly 1.0 in float64; rounding to two
	// decimals must accept it.
	if err := DefaultRatio.Validate(); err != nil {
		t.Fatalf("default ratio rejected: %v", err)
	}
	if err := (Ratio{Train: 0.7, Val: 0.2, Test: 0.05}).Validate(); err == nil {
		t.Fatal("expected error for sum 0.95")
	}
}

func TestSplitClass_CatScenario(t *testing.T) {
	dataDir := t.TempDir()
	outDir := t.TempDir()
	makeClass(t, dataDir, "cat", 10)

	opts := DefaultOptions(Ratio{Train: 0.8, Val: 0.1, Test: 0.1})
	opts.Seed = seedPtr(42)

	sum, err := SplitClass(filepath.Join(dataDir, "cat"), outDir, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Total != 10 || sum.Train != 8 || sum.Val != 1 || sum.Test != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if got := len(dirNames(t, filepath.Join(outDir, "train", "cat"))); got != 8 {
		t.Errorf("train/cat: want 8 files, got %d", got)
	}
	if got := len(dirNames(t, filepath.Join(outDir, "val", "cat"))); got != 1 {
		t.Errorf("val/cat: want 1 file, got %d", got)
	}
	if got := len(dirNames(t, filepath.Join(outDir, "test", "cat"))); got != 1 {
		t.Errorf("test/cat: want 1 file, got %d", got)
	}
}

func TestSplitClass_TestAbsorbsRemainder(t *testing.T) {
	dataDir := t.TempDir()
	outDir := t.TempDir()
	makeClass(t, dataDir, "dog", 7)

	opts := DefaultOptions(Ratio{Train: 0.8, Val: 0.1, Test: 0.1})
	sum, err := SplitClass(filepath.Join(dataDir, "dog"), outDir, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// floor(7*0.8)=5, floor(7*0.1)=0, test takes the remaining 2
	if sum.Train != 5 || sum.Val != 0 || sum.Test != 2 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	// a group with zero files must not create its directory
	if _, err := os.Stat(filepath.Join(outDir, "val")); !os.IsNotExist(err) {
		t.Error("val directory should not exist")
	}
	if got := len(dirNames(t, filepath.Join(outDir, "test", "dog"))); got != 2 {
		t.Errorf("test/dog: want 2 files, got %d", got)
	}
}

func TestSplitClass_Completeness(t *testing.T) {
	ratios := []Ratio{
		{0.8, 0.1, 0.1},
		{0.7, 0.2, 0.1},
		{0.5, 0.25, 0.25},
		{1.0, 0, 0},
		{0.8, 0.2, 0},
		{0, 0, 1.0},
	}
	for _, r := range ratios {
		for _, total := range []int{1, 2, 3, 7, 10, 99} {
			dataDir := t.TempDir()
			outDir := t.TempDir()
			makeClass(t, dataDir, "c", total)

			sum, err := SplitClass(filepath.Join(dataDir, "c"), outDir, DefaultOptions(r))
			if err != nil {
				t.Fatalf("ratio %s total %d: %v", r, total, err)
			}
			if sum.Train+sum.Val+sum.Test != total {
				t.Errorf("ratio %s total %d: counts %d+%d+%d != %d",
					r, total, sum.Train, sum.Val, sum.Test, total)
			}
		}
	}
}

func TestSplitClass_Disjointness(t *testing.T) {
	dataDir := t.TempDir()
	outDir := t.TempDir()
	makeClass(t, dataDir, "c", 13)

	opts := DefaultOptions(Ratio{Train: 0.6, Val: 0.2, Test: 0.2})
	opts.Seed = seedPtr(7)
	if _, err := SplitClass(filepath.Join(dataDir, "c"), outDir, opts); err != nil {
		t.Fatal(err)
	}

	seen := make(map[string]string)
	for _, g := range []string{"train", "val", "test"} {
		for _, name := range dirNames(t, filepath.Join(outDir, g, "c")) {
			if prev, dup := seen[name]; dup {
				t.Errorf("file %s in both %s and %s", name, prev, g)
			}
			seen[name] = g
		}
	}
	if len(seen) != 13 {
		t.Errorf("want 13 distinct files across groups, got %d", len(seen))
	}
}

func TestSplitDataset_Determinism(t *testing.T) {
	dataDir := t.TempDir()
	makeClass(t, dataDir, "cat", 11)
	makeClass(t, dataDir, "dog", 8)

	opts := DefaultOptions(Ratio{Train: 0.7, Val: 0.2, Test: 0.1})
	opts.Seed = seedPtr(1234)

	outA := t.TempDir()
	outB := t.TempDir()
	repA, err := SplitDataset(dataDir, outA, opts)
	if err != nil {
		t.Fatal(err)
	}
	repB, err := SplitDataset(dataDir, outB, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(repA, repB) {
		t.Fatalf("reports differ:\n%+v\n%+v", repA, repB)
	}

	for _, class := range []string{"cat", "dog"} {
		for _, g := range []string{"train", "val", "test"} {
			a := dirNames(t, filepath.Join(outA, g, class))
			b := dirNames(t, filepath.Join(outB, g, class))
			if !reflect.DeepEqual(a, b) {
				t.Errorf("%s/%s assignment differs: %v vs %v", g, class, a, b)
			}
		}
	}
}

func TestSplitClass_BadRatioTouchesNothing(t *testing.T) {
	dataDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	makeClass(t, dataDir, "c", 5)

	opts := DefaultOptions(Ratio{Train: 0.7, Val: 0.2, Test: 0.05})
	if _, err := SplitClass(filepath.Join(dataDir, "c"), outDir, opts); err == nil {
		t.Fatal("expected ratio error")
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Error("output directory should not have been created")
	}
}

func TestSplitDataset_EmptyClassSkipped(t *testing.T) {
	dataDir := t.TempDir()
	outDir := t.TempDir()
	makeClass(t, dataDir, "full", 4)
	if err := os.MkdirAll(filepath.Join(dataDir, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}
	// non-qualifying files only
	if err := os.WriteFile(filepath.Join(dataDir, "empty", "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := SplitDataset(dataDir, outDir, DefaultOptions(DefaultRatio))
	if err != nil {
		t.Fatal(err)
	}
	if len(report) != 1 || report[0].Class != "full" {
		t.Fatalf("unexpected report: %+v", report)
	}
	for _, g := range []string{"train", "val", "test"} {
		if _, err := os.Stat(filepath.Join(outDir, g, "empty")); !os.IsNotExist(err) {
			t.Errorf("%s/empty should not exist", g)
		}
	}
}

func TestSplitDataset_ZeroRatioOmitsGroups(t *testing.T) {
	dataDir := t.TempDir()
	outDir := t.TempDir()
	makeClass(t, dataDir, "a", 6)
	makeClass(t, dataDir, "b", 3)

	report, err := SplitDataset(dataDir, outDir, DefaultOptions(Ratio{Train: 1.0}))
	if err != nil {
		t.Fatal(err)
	}
	for _, sum := range report {
		if sum.Val != 0 || sum.Test != 0 {
			t.Errorf("class %s: val/test should be 0: %+v", sum.Class, sum)
		}
		if sum.Train != sum.Total {
			t.Errorf("class %s: train should equal total: %+v", sum.Class, sum)
		}
	}
	for _, g := range []string{"val", "test"} {
		if _, err := os.Stat(filepath.Join(outDir, g)); !os.IsNotExist(err) {
			t.Errorf("%s directory should not exist", g)
		}
	}
}

func TestCutPoints_RemainderGoesToLastNonZeroGroup(t *testing.T) {
	// floor(7*0.8)=5, floor(7*0.2)=1 — without absorption one image
	// would be dropped when the test ratio is zero.
	groups := cutPoints(7, Ratio{Train: 0.8, Val: 0.2})
	if len(groups) != 2 {
		t.Fatalf("want 2 groups, got %d", len(groups))
	}
	if groups[0].name != GroupTrain || groups[0].hi-groups[0].lo != 5 {
		t.Errorf("unexpected train group: %+v", groups[0])
	}
	if groups[1].name != GroupVal || groups[1].hi-groups[1].lo != 2 {
		t.Errorf("unexpected val group: %+v", groups[1])
	}
}

func TestSplitDataset_MoveDrainsSource(t *testing.T) {
	dataDir := t.TempDir()
	makeClass(t, dataDir, "cat", 5)
	makeClass(t, dataDir, "dog", 5)

	opts := DefaultOptions(DefaultRatio)
	opts.Move = true

	first, err := SplitDataset(dataDir, t.TempDir(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 2 {
		t.Fatalf("first run: want 2 classes, got %d", len(first))
	}

	second, err := SplitDataset(dataDir, t.TempDir(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(second) != 0 {
		t.Fatalf("second run after move: want empty report, got %+v", second)
	}
}

func TestSplitClass_ExtensionFilter(t *testing.T) {
	dataDir := t.TempDir()
	outDir := t.TempDir()
	dir := filepath.Join(dataDir, "c")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.JPG", "b.png", "c.Jpeg", "skip.txt", "skip.gif"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	sum, err := SplitClass(dir, outDir, DefaultOptions(Ratio{Train: 1.0}))
	if err != nil {
		t.Fatal(err)
	}
	if sum.Total != 3 {
		t.Errorf("want 3 qualifying images, got %d", sum.Total)
	}
}

func TestSplitClass_NoShuffleKeepsOrder(t *testing.T) {
	dataDir := t.TempDir()
	outDir := t.TempDir()
	makeClass(t, dataDir, "c", 4)

	opts := DefaultOptions(Ratio{Train: 0.5, Val: 0.25, Test: 0.25})
	opts.Shuffle = false
	if _, err := SplitClass(filepath.Join(dataDir, "c"), outDir, opts); err != nil {
		t.Fatal(err)
	}

	want := map[string][]string{
		"train": {"img-00.jpg", "img-01.jpg"},
		"val":   {"img-02.jpg"},
		"test":  {"img-03.jpg"},
	}
	for g, names := range want {
		if got := dirNames(t, filepath.Join(outDir, g, "c")); !reflect.DeepEqual(got, names) {
			t.Errorf("%s: want %v, got %v", g, names, got)
		}
	}
}

func TestSplitDataset_IgnoresTopLevelFiles(t *testing.T) {
	dataDir := t.TempDir()
	outDir := t.TempDir()
	makeClass(t, dataDir, "c", 2)
	if err := os.WriteFile(filepath.Join(dataDir, "stray.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := SplitDataset(dataDir, outDir, DefaultOptions(Ratio{Train: 1.0}))
	if err != nil {
		t.Fatal(err)
	}
	if len(report) != 1 || report[0].Class != "c" {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestSplitClass_CopyPreservesSource(t *testing.T) {
	dataDir := t.TempDir()
	outDir := t.TempDir()
	makeClass(t, dataDir, "c", 6)

	if _, err := SplitClass(filepath.Join(dataDir, "c"), outDir, DefaultOptions(DefaultRatio)); err != nil {
		t.Fatal(err)
	}
	if got := len(dirNames(t, filepath.Join(dataDir, "c"))); got != 6 {
		t.Errorf("source should still hold 6 files, got %d", got)
	}
}

func TestPlan_MatchesSplitCounts(t *testing.T) {
	dataDir := t.TempDir()
	makeClass(t, dataDir, "cat", 10)
	makeClass(t, dataDir, "dog", 7)

	opts := DefaultOptions(Ratio{Train: 0.8, Val: 0.1, Test: 0.1})
	planned, err := Plan(dataDir, opts)
	if err != nil {
		t.Fatal(err)
	}

	outDir := t.TempDir()
	actual, err := SplitDataset(dataDir, outDir, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(planned, actual) {
		t.Fatalf("plan %+v != actual %+v", planned, actual)
	}
}

func TestReportTotals(t *testing.T) {
	r := Report{
		{Class: "a", Total: 10, Train: 8, Val: 1, Test: 1},
		{Class: "b", Total: 7, Train: 5, Val: 0, Test: 2},
	}
	images, train, val, test := r.Totals()
	if images != 17 || train != 13 || val != 1 || test != 3 {
		t.Errorf("unexpected totals: %d %d %d %d", images, train, val, test)
	}
}
