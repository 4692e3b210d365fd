package manifest

import (
	"testing"

	"dataset-manifest/core/dataset"

	"github.com/stretchr/testify/assert"
)

func unmatchedFixture() []dataset.Record {
	return []dataset.Record{
		{Index: 3, ImageID: 42},
		{Index: 120, ImageID: 953619},
	}
}

func TestRenderReport(t *testing.T) {
	t.Run("Rows", func(t *testing.T) {
		want := "Index ImageId\n" +
			"    3      42\n" +
			"  120  953619\n"
		assert.Equal(t, want, RenderReport(unmatchedFixture()))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "Index ImageId\n", RenderReport(nil))
	})
}
