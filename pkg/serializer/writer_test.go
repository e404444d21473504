package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type testHeader struct {
	Kind string `json:"kind" yaml:"kind"`
}

type testVersion struct {
	Major, Minor int
}

func (v testVersion) String() string {
	return "v" + string(rune('0'+v.Major)) + "." + string(rune('0'+v.Minor))
}

type testQueue struct {
	Name string `json:"name" yaml:"name"`
	URI  string `json:"deviceURI" yaml:"deviceURI"`
}

type testDoc struct {
	testHeader `json:",inline" yaml:",inline"`

	RunID   string        `json:"runID" yaml:"runID"`
	Secret  string        `json:"-" yaml:"-"`
	OS      testVersion   `json:"osVersion" yaml:"osVersion"`
	Took    time.Duration `json:"took" yaml:"took"`
	Queues  []testQueue   `json:"queues" yaml:"queues"`
	Failed  []testQueue   `json:"failed" yaml:"failed"`
	Plain   int
	Missing *testQueue `json:"missing" yaml:"missing"`
}

func sampleDoc() testDoc {
	return testDoc{
		testHeader: testHeader{Kind: "RunReport"},
		RunID:      "abc",
		Secret:     "s3cret",
		OS:         testVersion{Major: 9, Minor: 4},
		Took:       1500 * time.Millisecond,
		Queues: []testQueue{
			{Name: "lib-color", URI: "smb://fs1/lib-color"},
			{Name: "lab-bw", URI: "smb://fs2/lab-bw"},
		},
		Plain: 7,
	}
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatJSON, &buf).Serialize(context.Background(), sampleDoc()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "RunReport", got["kind"])
	assert.NotContains(t, buf.String(), "s3cret")
	assert.True(t, strings.HasPrefix(buf.String(), "{\n  "))
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatYAML, &buf).Serialize(context.Background(), sampleDoc()))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "RunReport", got["kind"])
	assert.Equal(t, "abc", got["runID"])
	assert.NotContains(t, buf.String(), "s3cret")
}

func TestWriter_SerializeTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), sampleDoc()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "FIELD"))
	for _, want := range []string{
		"kind ",
		"runID ",
		"osVersion ",
		"v9.4",
		"took ",
		"1.5s",
		"queues[0].name ",
		"queues[1].deviceURI ",
		"smb://fs2/lab-bw",
		"failed ",
		"Plain ",
		"missing ",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "s3cret")
	assert.NotContains(t, out, "testHeader")
}

func TestWriter_SerializeTableScalar(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), "hello"))
	assert.Contains(t, buf.String(), "value")
	assert.Contains(t, buf.String(), "hello")

	buf.Reset()
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), map[string]string{}))
	assert.Equal(t, "<empty>\n", buf.String())
}

func TestNewWriter_UnknownFormatDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(Format("xml"), &buf).Serialize(context.Background(), map[string]int{"a": 1}))
	assert.JSONEq(t, `{"a":1}`, buf.String())
}

func TestNewFileWriterOrStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	w, err := NewFileWriterOrStdout(FormatYAML, path)
	require.NoError(t, err)
	require.NoError(t, w.Serialize(context.Background(), map[string]string{"a": "b"}))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a: b\n", string(b))

	for _, p := range []string{"", " ", "-"} {
		w, err := NewFileWriterOrStdout(FormatJSON, p)
		require.NoError(t, err)
		assert.Nil(t, w.closer)
	}

	_, err = NewFileWriterOrStdout(FormatJSON, filepath.Join(t.TempDir(), "missing", "out.json"))
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	for _, f := range SupportedFormats() {
		assert.False(t, Format(f).IsUnknown())
	}
	assert.True(t, Format("csv").IsUnknown())
}

type hiddenCount int

type timing struct {
	Took time.Duration `json:"took"`
	Tags map[string]string
}

func TestWriter_SerializeTablePromotesUnexportedEmbedded(t *testing.T) {
	doc := struct {
		testHeader
		timing
		hiddenCount
		RunID string `json:"runID"`
	}{
		testHeader:  testHeader{Kind: "QueueList"},
		timing:      timing{Took: 2 * time.Second, Tags: map[string]string{"site": "lib"}},
		hiddenCount: 3,
		RunID:       "r1",
	}

	var table bytes.Buffer
	require.NoError(t, NewWriter(FormatTable, &table).Serialize(context.Background(), doc))

	var js bytes.Buffer
	require.NoError(t, NewWriter(FormatJSON, &js).Serialize(context.Background(), doc))
	var got map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &got))
	assert.Equal(t, "QueueList", got["kind"])
	assert.NotContains(t, got, "hiddenCount")

	rows := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(table.String()), "\n")[2:] {
		fields := strings.Fields(line)
		require.Len(t, fields, 2, line)
		rows[fields[0]] = fields[1]
	}
	assert.Equal(t, "QueueList", rows["kind"])
	assert.Equal(t, "r1", rows["runID"])
	assert.Equal(t, "lib", rows["Tags.site"])
	assert.Contains(t, rows, "took")
	assert.NotContains(t, table.String(), "hiddenCount")
}
