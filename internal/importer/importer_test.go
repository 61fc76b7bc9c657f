package importer

import (
	"context"
	"errors"
	"testing"

	"bookhive/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdder struct {
	added []Record
	err   error
}

func (f *fakeAdder) AddBook(ctx context.Context, title, author, coverURL string) (*catalog.Book, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.added = append(f.added, Record{Title: title, Author: author, CoverURL: coverURL})
	return &catalog.Book{Title: title, Author: author, CoverURL: coverURL, Available: true}, nil
}

func TestRunSkipsInvalidRecordsByIndex(t *testing.T) {
	adder := &fakeAdder{}
	records := []Record{
		{Title: "A", Author: "X"},
		{Title: "B"}, // no author
	}

	report, err := Run(context.Background(), adder, records)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Added)
	require.Len(t, adder.added, 1)
	assert.Equal(t, "A", adder.added[0].Title)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "invalid book at index 1", report.Errors[0])
}

func TestRunReportsEveryInvalidIndex(t *testing.T) {
	adder := &fakeAdder{}
	records := []Record{
		{Author: "no title"},
		{Title: "ok", Author: "ok"},
		{},
	}

	report, err := Run(context.Background(), adder, records)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Added)
	assert.Equal(t, []string{"invalid book at index 0", "invalid book at index 2"}, report.Errors)
}

func TestRunPropagatesStoreFailure(t *testing.T) {
	adder := &fakeAdder{err: errors.New("store down")}
	records := []Record{{Title: "A", Author: "X"}}

	_, err := Run(context.Background(), adder, records)
	assert.Error(t, err)
}

func TestParseRejectsMalformedData(t *testing.T) {
	_, err := Parse([]byte("{not json"))
	assert.Error(t, err)
}

func TestBundledBooksAreAllValid(t *testing.T) {
	adder := &fakeAdder{}

	report, err := RunBundled(context.Background(), adder)
	require.NoError(t, err)

	assert.Empty(t, report.Errors)
	assert.Greater(t, report.Added, 0)
	assert.Equal(t, report.Added, len(adder.added))
}
