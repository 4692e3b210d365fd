package catalog

import (
	"fmt"

	"dataset-manifest/core/dataset"

	"github.com/goccy/go-json"
)

// Image is the catalog row of a matched record.
type Image struct {
	ImageID         int64  `gorm:"column:image_id;primaryKey;autoIncrement:false"`
	Index           int    `gorm:"column:ordinal_index"`
	FileHash        string `gorm:"column:file_hash;size:64;index"`
	FileName        string `gorm:"column:file_name;size:255"`
	Partition       string `gorm:"column:partition;size:255;index"`
	ScoreCount      int    `gorm:"column:score_count"`
	ScoreDictionary string `gorm:"column:score_dictionary;type:text"`
}

// TableName overrides the default table name.
func (Image) TableName() string { return "images" }

// Columns lists the columns the catalog reads and writes.
var Columns = []string{"image_id", "ordinal_index", "file_hash", "file_name", "partition", "score_count", "score_dictionary"}

func fromRecord(r dataset.Record) (Image, error) {
	scores, err := json.Marshal(r.Scores)
	if err != nil {
		return Image{}, fmt.Errorf("failed to encode scores of %d: %w", r.ImageID, err)
	}
	return Image{
		ImageID:         r.ImageID,
		Index:           r.Index,
		FileHash:        r.FileHash,
		FileName:        r.FileName,
		Partition:       r.Partition,
		ScoreCount:      r.ScoreCount,
		ScoreDictionary: string(scores),
	}, nil
}

// Record converts the row back into a dataset record.
func (i Image) Record() (dataset.Record, error) {
	r := dataset.Record{
		Index:      i.Index,
		ImageID:    i.ImageID,
		FileHash:   i.FileHash,
		FileName:   i.FileName,
		Partition:  i.Partition,
		ScoreCount: i.ScoreCount,
	}
	if i.ScoreDictionary != "" {
		if err := json.Unmarshal([]byte(i.ScoreDictionary), &r.Scores); err != nil {
			return dataset.Record{}, fmt.Errorf("invalid score_dictionary for %d: %w", i.ImageID, err)
		}
	}
	return r, nil
}
