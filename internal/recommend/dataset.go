// Package recommend implements the synchronous TF-IDF perfume recommender.
package recommend

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/s-a-yu/auraPerfumeRec/internal/domain/perfume"
)

// LoadDataset reads the perfume CSV at path. The header row must name the
// Name, Brand and Notes columns (case-insensitive, any order). Rows with a
// missing field are skipped, and duplicate name+brand pairs keep the first
// occurrence.
func LoadDataset(path string) ([]perfume.Perfume, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return readDataset(f)
}

func readDataset(r io.Reader) ([]perfume.Perfume, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}

	nameIdx, brandIdx, notesIdx := -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "name":
			nameIdx = i
		case "brand":
			brandIdx = i
		case "notes":
			notesIdx = i
		}
	}
	if nameIdx < 0 || brandIdx < 0 || notesIdx < 0 {
		return nil, fmt.Errorf("dataset header missing required columns, got %v", header)
	}

	var perfumes []perfume.Perfume
	seen := make(map[string]struct{})
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset row: %w", err)
		}

		max := nameIdx
		if brandIdx > max {
			max = brandIdx
		}
		if notesIdx > max {
			max = notesIdx
		}
		if len(record) <= max {
			continue
		}

		p := perfume.Perfume{
			Name:  strings.TrimSpace(record[nameIdx]),
			Brand: strings.TrimSpace(record[brandIdx]),
			Notes: strings.TrimSpace(record[notesIdx]),
		}
		if p.Name == "" || p.Brand == "" || p.Notes == "" {
			continue
		}

		key := strings.ToLower(p.Name) + "|" + strings.ToLower(p.Brand)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		perfumes = append(perfumes, p)
	}

	if len(perfumes) == 0 {
		return nil, fmt.Errorf("dataset contains no usable rows")
	}
	return perfumes, nil
}
