package recommend

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var catalogCSV = strings.Join([]string{
	"Name,Brand,Notes",
	"Santal 33,Le Labo,\"sandalwood, cedarwood, cardamom, violet, leather\"",
	"Black Opium,Yves Saint Laurent,\"vanilla, coffee, white flowers, cedar\"",
	"Acqua di Gio,Giorgio Armani,\"bergamot, neroli, green tangerine, marine notes\"",
	"Oud Wood,Tom Ford,\"oud, rosewood, cardamom, sandalwood, vanilla\"",
	"Miss Dior,Dior,\"rose, peony, lily of the valley, musk\"",
}, "\n")

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "perfumes.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestLoadDataset(t *testing.T) {
	perfumes, err := LoadDataset(writeCatalog(t, catalogCSV))
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if len(perfumes) != 5 {
		t.Fatalf("expected 5 perfumes, got %d", len(perfumes))
	}
	if perfumes[0].Name != "Santal 33" || perfumes[0].Brand != "Le Labo" {
		t.Errorf("unexpected first perfume: %+v", perfumes[0])
	}
}

func TestLoadDatasetSkipsIncompleteAndDuplicateRows(t *testing.T) {
	csv := strings.Join([]string{
		"notes,name,brand",
		"\"vanilla, musk\",First,House A",
		",Missing Notes,House B",
		"\"vanilla, musk\",first,house a",
		"\"rose, oud\",Second,House C",
	}, "\n")

	perfumes, err := LoadDataset(writeCatalog(t, csv))
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if len(perfumes) != 2 {
		t.Fatalf("expected 2 perfumes, got %d: %+v", len(perfumes), perfumes)
	}
}

func TestLoadDatasetMissingColumns(t *testing.T) {
	if _, err := LoadDataset(writeCatalog(t, "name,brand\nA,B")); err == nil {
		t.Fatal("expected error for header without notes column")
	}
}

func TestLoadDatasetMissingFile(t *testing.T) {
	if _, err := LoadDataset(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRecommendOrdersBySimilarity(t *testing.T) {
	perfumes, err := LoadDataset(writeCatalog(t, catalogCSV))
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	svc := NewService(perfumes)

	matches := svc.Recommend("oud, sandalwood, cardamom", 3)
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[0].Name != "Oud Wood" {
		t.Errorf("expected Oud Wood first, got %s", matches[0].Name)
	}
	if matches[1].Name != "Santal 33" {
		t.Errorf("expected Santal 33 second, got %s", matches[1].Name)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Errorf("scores not descending at %d: %f > %f", i, matches[i].Score, matches[i-1].Score)
		}
	}
}

func TestRecommendUnknownNotesScoreZero(t *testing.T) {
	perfumes, err := LoadDataset(writeCatalog(t, catalogCSV))
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	svc := NewService(perfumes)

	matches := svc.Recommend("zzzz qqqq", 2)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	for _, m := range matches {
		if m.Score != 0 {
			t.Errorf("expected zero score for unknown notes, got %f", m.Score)
		}
	}
}

func TestRecommendClampsToCatalogSize(t *testing.T) {
	perfumes, err := LoadDataset(writeCatalog(t, catalogCSV))
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	svc := NewService(perfumes)

	if got := len(svc.Recommend("vanilla", 50)); got != 5 {
		t.Errorf("expected catalog size 5, got %d", got)
	}
	if got := len(svc.Recommend("vanilla", 0)); got != 0 {
		t.Errorf("expected empty result for n=0, got %d", got)
	}
}

func TestTokenizeDropsShortAndNonAlnum(t *testing.T) {
	got := tokenize("Rose, a B2; oud-wood!")
	want := []string{"rose", "b2", "oud", "wood"}
	if len(got) != len(want) {
		t.Fatalf("tokenize: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
