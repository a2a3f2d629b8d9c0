package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/ajitpratap0/datacontainer/pkg/binning"
	"github.com/ajitpratap0/datacontainer/pkg/formats/arrow"
	"github.com/ajitpratap0/datacontainer/pkg/json"
	"github.com/ajitpratap0/datacontainer/pkg/testutil"
)

type CLISuite struct {
	testutil.FileSuite
	jsonPath string
	csvPath  string
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupSuite() {
	s.FileSuite.SetupSuite()

	data, err := json.Marshal(testutil.Columns())
	s.Require().NoError(err)
	s.jsonPath = s.WriteFile("columns.json", data)
	s.csvPath = s.WriteFile("columns.csv.gz", []byte("a,b,c\n1,8,x\n2,9,y\n3,10,x\n4,11,y\n5,12,x\n6,13,z\n7,14,z\n"))
}

// run executes the CLI and returns its standard output and error output
func (s *CLISuite) run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func (s *CLISuite) TestVersion() {
	out, _, err := s.run("version")
	s.Require().NoError(err)
	s.Contains(out, "datacontainer v"+version)
}

func (s *CLISuite) TestDomain() {
	out, _, err := s.run("domain", s.jsonPath, "a", "c")
	s.Require().NoError(err)

	var got []struct {
		Column string        `json:"column"`
		Type   string        `json:"type"`
		Domain []interface{} `json:"domain"`
	}
	s.Require().NoError(json.Unmarshal([]byte(out), &got))
	s.Require().Len(got, 2)
	s.Equal("quantitative", got[0].Type)
	s.Equal([]interface{}{1.0, 7.0}, got[0].Domain)
	s.Equal([]interface{}{"x", "y", "z"}, got[1].Domain)
}

func (s *CLISuite) TestDomain_UnknownColumn() {
	_, _, err := s.run("domain", s.jsonPath, "missing")
	s.Error(err)
}

func (s *CLISuite) TestBounds_CompressedCSV() {
	out, stderr, err := s.run("bounds", s.csvPath, "--by", "a:EqualInterval:3", "--metrics")
	s.Require().NoError(err)

	var got []columnBounds
	s.Require().NoError(json.Unmarshal([]byte(out), &got))
	s.Require().Len(got, 1)
	s.Equal([]float64{1, 3, 5, 7}, got[0].Bounds)
	s.Equal(binning.EqualInterval, got[0].Method)
	s.Len(got[0].Ranges, 3)

	s.Contains(stderr, "datacontainer_classifications_total")
}

func (s *CLISuite) TestBounds_YAML() {
	out, _, err := s.run("bounds", s.jsonPath, "--by", "b:Quantile:2", "-o", "yaml")
	s.Require().NoError(err)
	s.Contains(out, "bounds:")
	s.Contains(out, "method: Quantile")
}

func (s *CLISuite) TestBounds_InstructionFile() {
	path := s.WriteFile("instructions.json", []byte(`[{"column":"a","method":"jenks","numClasses":2}]`))
	out, _, err := s.run("bounds", s.jsonPath, "--instructions", path)
	s.Require().NoError(err)

	var got []columnBounds
	s.Require().NoError(json.Unmarshal([]byte(out), &got))
	s.Require().Len(got, 1)
	s.Equal(binning.Jenks, got[0].Method)
}

func (s *CLISuite) TestBounds_Errors() {
	_, _, err := s.run("bounds", s.jsonPath)
	s.Error(err, "no instructions")

	_, _, err = s.run("bounds", s.jsonPath, "--by", "c:Jenks:2")
	s.Error(err, "categorical column")

	_, _, err = s.run("bounds", s.jsonPath, "--by", "a:Unknown")
	s.Error(err, "unknown method")
}

func (s *CLISuite) TestBin() {
	outPath := s.Path("binned.arrow")
	out, _, err := s.run("bin", s.jsonPath, "--by", "a:EqualInterval:3", "--keys", "--out", outPath)
	s.Require().NoError(err)

	var got []binSummary
	s.Require().NoError(json.Unmarshal([]byte(out), &got))
	s.Require().Len(got, 3)
	s.Equal(rangeOfValues{Lo: 3, Hi: 5}, got[1].Bins["bins"])
	s.Equal(2, got[1].Rows)
	s.Equal([]interface{}{"2", "3"}, got[1].Keys)

	f, err := os.Open(outPath)
	s.Require().NoError(err)
	defer f.Close()
	flat, err := arrow.Read(f)
	s.Require().NoError(err)
	s.Equal(7, flat.NumRows())
	s.Contains(flat.ColumnNames(), "bins")
}

func (s *CLISuite) TestBin_MultiDimensional() {
	out, _, err := s.run("bin", s.jsonPath, "--by", "a:EqualInterval:2", "--by", "b:IntervalSize:5")
	s.Require().NoError(err)

	var got []binSummary
	s.Require().NoError(json.Unmarshal([]byte(out), &got))
	s.Require().Len(got, 3)
	s.Equal(rangeOfValues{Lo: 8, Hi: 13}, got[0].Bins["bins_b"])
	s.Equal(3, got[0].Rows)
}

func (s *CLISuite) TestGroupBy() {
	out, _, err := s.run("groupby", s.jsonPath, "--by", "c")
	s.Require().NoError(err)

	var got []groupSummary
	s.Require().NoError(json.Unmarshal([]byte(out), &got))
	s.Require().Len(got, 3)
	s.Equal("x", got[0].Values["c"])
	s.Equal(3, got[0].Rows)
	s.Equal(2, got[2].Rows)
}

func (s *CLISuite) TestExport() {
	for _, name := range []string{"export.arrow", "export.arrow.zst", "export.json.lz4"} {
		s.Run(name, func() {
			out, _, err := s.run("export", s.csvPath, "--out", s.Path(name), "--columns", "c,a", "--sort", "a", "--desc")
			s.Require().NoError(err)

			var res exportResult
			s.Require().NoError(json.Unmarshal([]byte(out), &res))
			s.Equal(s.Path(name), res.Path)
			s.Equal(7, res.Rows)
			s.Equal([]string{"c", "a", "$key"}, res.Columns)

			// the written file loads back
			out, _, err = s.run("domain", res.Path, "a")
			s.Require().NoError(err)
			s.Contains(out, "quantitative")
		})
	}
}

func (s *CLISuite) TestExport_ConfiguredCompression() {
	cfg := s.WriteFile("config.yaml", []byte("io:\n  compression: gzip\n"))
	out, _, err := s.run("--config", cfg, "export", s.jsonPath, "--out", s.Path("configured.arrow"))
	s.Require().NoError(err)

	var res exportResult
	s.Require().NoError(json.Unmarshal([]byte(out), &res))
	s.Equal(s.Path("configured.arrow.gz"), res.Path)
	_, err = os.Stat(res.Path)
	s.NoError(err)
}

func (s *CLISuite) TestExport_Errors() {
	_, _, err := s.run("export", s.jsonPath, "--out", s.Path("out.parquet"))
	s.Error(err)

	txt := s.WriteFile("data.txt", []byte("a\n1\n"))
	_, _, err = s.run("export", txt, "--out", s.Path("out.arrow"))
	s.Error(err)

	_, _, err = s.run("-o", "xml", "domain", s.jsonPath)
	s.Error(err)
}

func TestParseInstruction(t *testing.T) {
	tests := []struct {
		spec    string
		want    binning.Instruction
		wantErr bool
	}{
		{spec: "a", want: binning.Instruction{Column: "a"}},
		{spec: "a:jenks", want: binning.Instruction{Column: "a", Method: binning.Jenks}},
		{spec: "a:Quantile:4", want: binning.Instruction{Column: "a", Method: binning.Quantile, NumClasses: 4}},
		{spec: "a:IntervalSize:2.5", want: binning.Instruction{Column: "a", Method: binning.IntervalSize, BinSize: 2.5}},
		{spec: "a:Manual:0/5/10", want: binning.Instruction{Column: "a", Method: binning.Manual, ManualClasses: []float64{0, 5, 10}}},
		{spec: "", wantErr: true},
		{spec: "a:Nope", wantErr: true},
		{spec: "a:Quantile:four", wantErr: true},
		{spec: "a:Manual:0/x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := parseInstruction(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
