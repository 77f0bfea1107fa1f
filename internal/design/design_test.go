package design

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrom_OneHotEncodesSortedColumns(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	slides := []Slide{
		{Name: "s1", Covariates: map[string]string{"individual": "A", "treatment": "LPS"}},
		{Name: "s2", Covariates: map[string]string{"individual": "B", "treatment": "LPS"}},
		{Name: "s3", Covariates: map[string]string{"individual": "A", "treatment": "none"}},
	}

	// --- Act ---
	m, err := From(slides)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, []string{"s1", "s2", "s3"}, m.Slides)
	require.Equal(t, []string{
		"individual=A",
		"individual=B",
		"treatment=LPS",
		"treatment=none",
	}, m.Columns, "columns must be deterministic regardless of map iteration order")

	rows, cols := m.Dims()
	require.Equal(t, 3, rows)
	require.Equal(t, 4, cols)

	row, ok := m.Row("s2")
	require.True(t, ok)
	require.Equal(t, []float64{0, 1, 1, 0}, row)
}

func TestFrom_MissingCovariateGetsZeros(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	slides := []Slide{
		{Name: "annotated", Covariates: map[string]string{"batch": "one"}},
		{Name: "plain"},
	}

	// --- Act ---
	m, err := From(slides)

	// --- Assert ---
	require.NoError(t, err)
	row, ok := m.Row("plain")
	require.True(t, ok)
	require.Equal(t, []float64{0}, row)
}

func TestFrom_NoCovariatesAtAll(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	slides := []Slide{{Name: "a"}, {Name: "b"}}

	// --- Act ---
	m, err := From(slides)

	// --- Assert ---
	require.NoError(t, err)
	rows, cols := m.Dims()
	require.Equal(t, 2, rows)
	require.Equal(t, 0, cols)
}

func TestFrom_RejectsDuplicateSlideNames(t *testing.T) {
	t.Parallel()

	// --- Act ---
	_, err := From([]Slide{{Name: "s1"}, {Name: "s1"}})

	// --- Assert ---
	require.ErrorContains(t, err, `duplicate slide "s1"`)
}

func TestFrom_RejectsUnnamedSlides(t *testing.T) {
	t.Parallel()

	// --- Act ---
	_, err := From([]Slide{{Covariates: map[string]string{"batch": "one"}}})

	// --- Assert ---
	require.ErrorContains(t, err, "has no name")
}

func TestMatrix_RowForUnknownSlide(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	m, err := From([]Slide{{Name: "s1"}})
	require.NoError(t, err)

	// --- Act ---
	_, ok := m.Row("s2")

	// --- Assert ---
	require.False(t, ok)
}
