package csv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/datacontainer/pkg/datatype"
	"github.com/ajitpratap0/datacontainer/pkg/domain"
	"github.com/ajitpratap0/datacontainer/pkg/errors"
	"github.com/ajitpratap0/datacontainer/pkg/table"
	"github.com/ajitpratap0/datacontainer/pkg/testutil"
)

func TestRead(t *testing.T) {
	input := "name,pop,area\nx,10,1.5\ny,,2\nz,30,\n"
	tbl, err := Read(strings.NewReader(input), Config{}, table.WithLogger(testutil.TestLogger(t)))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "pop", "area", datatype.KeyColumn}, tbl.ColumnNames())
	assert.Equal(t, 3, tbl.NumRows())

	pop, _ := tbl.Column("pop")
	assert.Equal(t, []interface{}{10.0, nil, 30.0}, pop)

	typ, _ := tbl.Type("name")
	assert.Equal(t, datatype.Categorical, typ)

	d, err := tbl.Domain("area")
	require.NoError(t, err)
	assert.Equal(t, domain.Range{1.5, 2}, d)
}

func TestRead_Delimiter(t *testing.T) {
	tbl, err := Read(strings.NewReader("a;b\n1;q\n"), Config{Comma: ';'})
	require.NoError(t, err)
	b, _ := tbl.Column("b")
	assert.Equal(t, []interface{}{"q"}, b)
}

func TestRead_SampleSize(t *testing.T) {
	input := "code\n1\n2\nA3\n"

	// the whole column is sampled: A3 keeps it categorical
	tbl, err := Read(strings.NewReader(input), Config{SampleSize: -1})
	require.NoError(t, err)
	codes, _ := tbl.Column("code")
	assert.Equal(t, []interface{}{"1", "2", "A3"}, codes)

	// a short sample infers numbers and then fails on A3
	_, err = Read(strings.NewReader(input), Config{SampleSize: 2})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFormat))
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		errType errors.ErrorType
	}{
		{"empty", "", errors.ErrorTypeFormat},
		{"header only", "a,b\n", errors.ErrorTypeSchema},
		{"ragged", "a,b\n1\n", errors.ErrorTypeFormat},
		{"duplicate header", "a,a\n1,2\n", errors.ErrorTypeSchema},
		{"reserved name", "$a\n1\n", errors.ErrorTypeSchema},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), Config{})
			require.Error(t, err)
			assert.Equal(t, tt.errType, errors.TypeOf(err), err.Error())
		})
	}
}
