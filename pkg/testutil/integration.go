package testutil

import (
	"os"
	"path/filepath"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/ajitpratap0/datacontainer/pkg/compression"
)

// FileSuite provides a temporary directory for tests that read and write
// dataset files.
type FileSuite struct {
	suite.Suite
	tempDir   string
	startTime time.Time
}

// SetupSuite runs before all tests in the suite
func (s *FileSuite) SetupSuite() {
	s.startTime = time.Now()
	tempDir, err := os.MkdirTemp("", "datacontainer-test-*")
	require.NoError(s.T(), err)
	s.tempDir = tempDir
}

// TearDownSuite runs after all tests in the suite
func (s *FileSuite) TearDownSuite() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
	s.T().Logf("file suite completed in %v", time.Since(s.startTime))
}

// Path returns the absolute path of name inside the temp directory
func (s *FileSuite) Path(name string) string {
	return filepath.Join(s.tempDir, name)
}

// WriteFile writes data to name inside the temp directory, compressing it
// according to the file extension, and returns the path.
func (s *FileSuite) WriteFile(name string, data []byte) string {
	path := s.Path(name)
	f, err := os.Create(path)
	s.Require().NoError(err)
	defer f.Close()

	alg, _ := compression.FromExtension(name)
	w, err := compression.NewWriter(f, alg)
	s.Require().NoError(err)
	_, err = w.Write(data)
	s.Require().NoError(err)
	s.Require().NoError(w.Close())
	return path
}
