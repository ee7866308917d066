package recipient

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	input := "\ufeff Name , Number ,city\n" +
		"Asha Patel, 98765 43210 ,Surat\n" +
		",12345,Nowhere\n" +
		"  Kiran  ,\n" +
		"Ravi Shah,+91-99887-76655\n"

	tasks, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []Task{
		{Name: "Asha Patel", RawNumber: "98765 43210", Row: 1},
		{Name: "Kiran", RawNumber: "", Row: 3},
		{Name: "Ravi Shah", RawNumber: "+91-99887-76655", Row: 4},
	}, tasks)
}

func TestReadCSV_MissingColumns(t *testing.T) {
	for _, input := range []string{
		"name,city\nAsha,Surat\n",
		"number\n9876543210\n",
		"",
	} {
		_, err := ReadCSV(strings.NewReader(input))
		assert.ErrorIs(t, err, ErrMissingColumn, "input %q", input)
	}
}

func TestReadCSV_ShortRows(t *testing.T) {
	tasks, err := ReadCSV(strings.NewReader("number,name\n9876543210\n"))
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "name.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,number\nAsha Patel,9876543210\n"), 0o644))

	tasks, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Asha Patel", tasks[0].Name)

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
