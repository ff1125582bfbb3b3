package views

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pressle-logger/models"
)

func sample(i int) models.TelemetrySample {
	f := float64(i)
	return models.TelemetrySample{
		DeviceTimeS: f / 10,
		DistanceMM:  100 + f,
		AccelX:      f,
		AccelY:      -f,
		AccelZ:      2 * f,
		GyroX:       f + 0.5,
		GyroY:       f + 0.25,
		GyroZ:       f + 0.125,
	}
}

func TestWindowEvictsOldest(t *testing.T) {
	w := NewWindowBuffer(WindowSize)
	for i := 0; i < 250; i++ {
		w.Append(sample(i))
	}

	require.Equal(t, WindowSize, w.Len())
	for ch := Channel(0); ch < NumChannels; ch++ {
		assert.Len(t, w.Series(ch), WindowSize, ch.String())
	}

	dist := w.Series(ChannelDistance)
	for i, v := range dist {
		assert.Equal(t, 100+float64(50+i), v)
	}
	ts := w.Series(ChannelTime)
	assert.Equal(t, 5.0, ts[0])
	assert.Equal(t, 24.9, ts[len(ts)-1])
	assert.Equal(t, -249.0, w.Series(ChannelAccelY)[WindowSize-1])
}

func TestWindowPartialFill(t *testing.T) {
	w := NewWindowBuffer(4)
	_, ok := w.Latest()
	assert.False(t, ok)

	w.Append(sample(1))
	w.Append(sample(2))
	assert.Equal(t, 2, w.Len())
	assert.Equal(t, []float64{1, 2}, w.Series(ChannelAccelX))

	latest, ok := w.Latest()
	require.True(t, ok)
	assert.Equal(t, 102.0, latest[ChannelDistance])
	assert.Empty(t, w.Series(Channel(42)))
}

func TestWindowChannelsStayAligned(t *testing.T) {
	w := NewWindowBuffer(3)
	for i := 0; i < 10; i++ {
		w.Append(sample(i))
		n := w.Len()
		for ch := Channel(0); ch < NumChannels; ch++ {
			require.Len(t, w.Series(ch), n)
		}
	}
	assert.Equal(t, []float64{7.5, 8.5, 9.5}, w.Series(ChannelGyroX))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVWriterFlushesEveryRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	header := SchemaColumns[StreamEvents]
	w, err := NewCSVWriter(path, header, false)
	require.NoError(t, err)
	defer w.Close()

	// Header is on disk before any row is written.
	assert.Equal(t, [][]string{header}, readCSV(t, path))

	require.NoError(t, w.WriteRow([]string{"2026-01-01T00:00:00.000000", "1", "TAP", "", "idle"}))
	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "TAP", rows[1][2])
	assert.Equal(t, uint64(1), w.Rows())
}

func TestCSVWriterCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	w, err := NewCSVWriter(path, []string{"a"}, true)
	require.NoError(t, err)
	require.NoError(t, w.WriteRow([]string{"1"}))
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
	assert.Error(t, w.WriteRow([]string{"2"}))
	assert.Equal(t, [][]string{{"a"}, {"1"}}, readCSV(t, path))
}

func TestCSVWriterOpenFailure(t *testing.T) {
	_, err := NewCSVWriter(filepath.Join(t.TempDir(), "missing", "t.csv"), []string{"a"}, false)
	assert.ErrorContains(t, err, "csv create")
}

func TestValidateHeader(t *testing.T) {
	assert.NoError(t, ValidateHeader(StreamTelemetry, models.TelemetrySample{}.CSVHeader()))
	assert.NoError(t, ValidateHeader(StreamEvents, models.EventRecord{}.CSVHeader()))
	assert.Error(t, ValidateHeader(StreamEvents, models.TelemetrySample{}.CSVHeader()))
	assert.Error(t, ValidateHeader(StreamType(9), nil))
	assert.Equal(t, "events", StreamEvents.String())
}

func TestCSVWriterWriteRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.csv")
	s := sample(3)
	w, err := NewCSVWriter(path, s.CSVHeader(), false)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.WriteRecord(&s))
	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, s.CSVRow(), rows[1])

	ev := &models.EventRecord{Name: "TAP", State: "idle"}
	assert.ErrorContains(t, w.WriteRecord(ev), "row has 5 fields, header has 9")
	assert.Equal(t, uint64(1), w.Rows())
}
