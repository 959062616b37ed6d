package dump

import (
	"bytes"
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/linqkit/dataset"
	"github.com/kbukum/linqkit/errors"
	"github.com/kbukum/linqkit/pipeline"
)

type label struct{ v string }

func (l label) String() string { return "<" + l.v + ">" }

type inner struct{ N int }

type record struct {
	ID      string
	Price   decimal.Decimal
	Placed  time.Time
	Tags    []string
	Owner   *record `json:"-"`
	Label   label
	Nested  inner
	Missing *inner
	hidden  int
}

func TestText(t *testing.T) {
	r := record{
		ID:     "ALFKI",
		Price:  decimal.RequireFromString("18.5"),
		Placed: time.Date(1997, time.August, 25, 0, 0, 0, 0, time.UTC),
		Tags:   []string{"a"},
		Label:  label{"x"},
		hidden: 1,
	}
	want := "ID=ALFKI    Price=18.5    Placed=1997-08-25    Tags=...    Label=<x>    Nested={ }    Missing=null"
	assert.Equal(t, want, Text(r))
	assert.Equal(t, want, Text(&r))
}

func TestText_AbsentValuesAreNull(t *testing.T) {
	type contact struct {
		Region dataset.Text
		Phone  dataset.Text
		Fax    *string
	}
	assert.Equal(t, "Region=null    Phone=030-0074321    Fax=null",
		Text(contact{Region: dataset.None(), Phone: dataset.Some("030-0074321")}))
}

func TestText_Scalars(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"plain", "plain"},
		{42, "42"},
		{true, "true"},
		{nil, "null"},
		{(*record)(nil), "null"},
		{[]int{1, 2, 3}, "1, 2, 3"},
		{map[string]int{"a": 1}, "..."},
		{time.Date(1998, 1, 2, 3, 4, 5, 0, time.UTC), "1998-01-02 03:04:05"},
		{decimal.NewFromInt(7), "7"},
		{label{"y"}, "<y>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Text(tt.in))
	}
}

func TestDumper_Text(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf, "text")
	require.NoError(t, d.Heading("Threshold %d:", 1000))
	require.NoError(t, d.Write("Chai"))
	require.NoError(t, d.Write(inner{N: 3}))

	assert.Equal(t, "Threshold 1000:\nChai\nN=3\n", buf.String())
	assert.Equal(t, 2, d.Written())
	d.Reset()
	assert.Zero(t, d.Written())
}

func TestDumper_ColorHeading(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf, "text", WithColor(true))
	require.NoError(t, d.Heading("Beverages"))
	assert.Equal(t, bold+"Beverages"+reset+"\n", buf.String())
}

func TestDumper_JSON(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf, FormatJSON)
	require.NoError(t, d.Heading("Cheap"))
	require.NoError(t, d.Write(inner{N: 1}))
	require.NoError(t, d.Write("Chai"))
	assert.Equal(t, "{\"heading\":\"Cheap\"}\n{\"N\":1}\n\"Chai\"\n", buf.String())
}

func TestNew_UnknownFormatIsText(t *testing.T) {
	assert.Equal(t, FormatText, New(&bytes.Buffer{}, "yaml").format)
}

func TestSequence(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf, FormatText)
	err := Sequence(context.Background(), d, pipeline.Filter(pipeline.FromSlice([]int{5, 4, 1, 3}), func(n int) bool {
		return n < 5
	}))
	require.NoError(t, err)
	assert.Equal(t, "4\n1\n3\n", buf.String())
	assert.Equal(t, 3, d.Written())
}

func TestSequence_Errors(t *testing.T) {
	boom := stderrors.New("source broke")
	d := New(&bytes.Buffer{}, FormatText)
	assert.Same(t, boom, Sequence(context.Background(), d, pipeline.Fail[int](boom)))
	assert.True(t, errors.IsCode(Sequence[int](context.Background(), nil, pipeline.Empty[int]()), errors.ErrCodeInvalidArgument))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, stderrors.New("closed") }

func TestWrite_WriterFailureNotCounted(t *testing.T) {
	d := New(failingWriter{}, FormatText)
	assert.Error(t, d.Write("x"))
	assert.Zero(t, d.Written())
}
