package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/datacontainer/pkg/compression"
	"github.com/ajitpratap0/datacontainer/pkg/datatype"
	"github.com/ajitpratap0/datacontainer/pkg/errors"
	"github.com/ajitpratap0/datacontainer/pkg/formats/arrow"
	"github.com/ajitpratap0/datacontainer/pkg/formats/csv"
	"github.com/ajitpratap0/datacontainer/pkg/json"
	"github.com/ajitpratap0/datacontainer/pkg/table"
)

// load reads a dataset file. The format is taken from the extension left
// after stripping a compression suffix, e.g. cities.geojson.zst.
func (a *app) load(path string) (*table.Table, error) {
	alg, base := compression.FromExtension(path)

	f, err := os.Open(path) //nolint:gosec // G304: path comes from the command line
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrorTypeIO, "failed to open %s", path)
	}
	defer f.Close()

	r, err := compression.NewReader(f, alg)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	opts := []table.Option{table.WithLogger(a.log), table.WithConfig(a.cfg)}
	var tbl *table.Table
	switch ext := strings.ToLower(filepath.Ext(base)); ext {
	case ".json", ".geojson":
		data, rerr := io.ReadAll(r)
		if rerr != nil {
			return nil, errors.Wrapf(rerr, errors.ErrorTypeIO, "failed to read %s", path)
		}
		tbl, err = table.FromJSON(data, opts...)
	case ".csv":
		tbl, err = csv.Read(r, csv.Config{}, opts...)
	case ".tsv":
		tbl, err = csv.Read(r, csv.Config{Comma: '\t'}, opts...)
	case ".arrow", ".ipc":
		tbl, err = arrow.Read(r, opts...)
	default:
		return nil, errors.Newf(errors.ErrorTypeFormat, "unsupported dataset extension %q", ext).
			WithDetail("path", path)
	}
	if err != nil {
		return nil, err
	}

	a.log.Info("dataset loaded",
		zap.String("path", path),
		zap.String("compression", string(alg)),
		zap.Int("rows", tbl.NumRows()),
		zap.Strings("columns", tbl.ColumnNames()))
	return tbl, nil
}

// save writes tbl as Arrow or row-oriented JSON, picked by extension. A
// path without a compression suffix gets the configured one appended.
// It returns the path actually written.
func (a *app) save(path string, tbl *table.Table) (written string, err error) {
	alg, base := compression.FromExtension(path)
	if alg == compression.None && a.cfg.IO.Compression != compression.None {
		alg = a.cfg.IO.Compression
		path += alg.Extension()
	}

	ext := strings.ToLower(filepath.Ext(base))
	if ext != ".arrow" && ext != ".ipc" && ext != ".json" {
		return "", errors.Newf(errors.ErrorTypeFormat, "unsupported output extension %q", ext).
			WithDetail("path", path)
	}

	f, err := os.Create(path) //nolint:gosec // G304: path comes from the command line
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrorTypeIO, "failed to create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, errors.ErrorTypeIO, "failed to close %s", path)
		}
	}()

	w, err := compression.NewWriter(f, alg)
	if err != nil {
		return "", err
	}
	if ext == ".json" {
		err = json.Encode(w, jsonRows(tbl), "")
	} else {
		err = arrow.Write(w, tbl, a.cfg.IO.ArrowBatchSize)
	}
	if err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrapf(err, errors.ErrorTypeIO, "failed to flush %s", path)
	}

	a.log.Info("dataset written",
		zap.String("path", path),
		zap.String("compression", string(alg)),
		zap.Int("rows", tbl.NumRows()))
	return path, nil
}

// jsonRows returns the rows of tbl with invalid values as null, since
// JSON has no encoding for NaN or infinities
func jsonRows(tbl *table.Table) []map[string]interface{} {
	rows := tbl.Rows()
	for _, row := range rows {
		for name, v := range row {
			if !datatype.IsValid(v) {
				row[name] = nil
			}
		}
	}
	return rows
}

// print writes v to the command output in the selected format
func (a *app) print(cmd *cobra.Command, v interface{}) error {
	out := cmd.OutOrStdout()
	switch a.output {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return json.Encode(out, v, "  ")
	}
}
