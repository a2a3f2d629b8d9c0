package table

import (
	"github.com/ajitpratap0/datacontainer/pkg/columnar"
	"github.com/ajitpratap0/datacontainer/pkg/datatype"
	"github.com/ajitpratap0/datacontainer/pkg/errors"
	"github.com/ajitpratap0/datacontainer/pkg/keyindex"
)

// AddRow appends a row. Every column other than $key must be present. A
// table with caller supplied keys requires the new row's $key; a table with
// generated keys assigns the next one and rejects an explicit $key.
// Nothing is modified when validation fails.
func (t *Table) AddRow(row map[string]interface{}) error {
	values := make(map[string]interface{}, len(row)+1)
	for name, v := range row {
		n, err := normalizeValue(v)
		if err != nil {
			return err
		}
		values[name] = n
	}

	key, hasKey := values[datatype.KeyColumn]
	switch {
	case t.customKeys && !hasKey:
		return errors.Newf(errors.ErrorTypeKey, "row is missing column %q", datatype.KeyColumn)
	case !t.customKeys && hasKey:
		return errors.Newf(errors.ErrorTypeKey,
			"table generates its keys, %q must not be set", datatype.KeyColumn)
	case !t.customKeys:
		key = t.index.NextKey()
		values[datatype.KeyColumn] = key
	}

	if err := t.index.Check(key); err != nil {
		return err
	}
	if err := t.columns.CheckRow(values); err != nil {
		return err
	}

	if err := t.index.Insert(key, t.NumRows()); err != nil {
		return err
	}
	if err := t.columns.AppendRow(values); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "row append failed after validation")
	}
	t.invalidate(t.columns.Names()...)
	return nil
}

// UpdateRow overwrites the given columns of the row addressed by acc.
// Changing $key re-keys the row after checking the new key is free.
// Nothing is modified when validation fails.
func (t *Table) UpdateRow(acc keyindex.Accessor, values map[string]interface{}) error {
	i, err := t.resolve(acc)
	if err != nil {
		return err
	}

	normalized := make(map[string]interface{}, len(values))
	cols := make(map[string]*columnar.Column, len(values))
	for name, v := range values {
		col, err := t.column(name)
		if err != nil {
			return err
		}
		n, err := normalizeValue(v)
		if err != nil {
			return err
		}
		if err := col.Check(n); err != nil {
			return err
		}
		normalized[name] = n
		cols[name] = col
	}

	if newKey, ok := normalized[datatype.KeyColumn]; ok {
		oldKey := cols[datatype.KeyColumn].Get(i)
		if err := t.index.Replace(oldKey, newKey); err != nil {
			return err
		}
	}

	names := make([]string, 0, len(normalized))
	for name, v := range normalized {
		// Check above guarantees this succeeds
		_ = cols[name].Set(i, v)
		names = append(names, name)
	}
	t.invalidate(names...)
	return nil
}

// DeleteRow removes the row addressed by acc. Its key no longer resolves.
func (t *Table) DeleteRow(acc keyindex.Accessor) error {
	i, err := t.resolve(acc)
	if err != nil {
		return err
	}
	t.columns.DeleteRow(i)

	// row positions after i shifted
	keys, _ := t.columns.Get(datatype.KeyColumn)
	if err := t.index.Rebuild(keys.View()); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "key index rebuild failed after delete")
	}
	t.invalidate(t.columns.Names()...)
	return nil
}

// AddColumn appends a new column holding one value per row.
func (t *Table) AddColumn(name string, values []interface{}) error {
	if err := validateName(name); err != nil {
		return err
	}
	if t.HasColumn(name) {
		return errors.Newf(errors.ErrorTypeSchema, "column %q already exists", name).
			WithDetail("column", name)
	}
	col, err := t.newColumn(name, values)
	if err != nil {
		return err
	}
	if err := t.columns.Add(col); err != nil {
		return err
	}
	t.invalidate(name)
	return nil
}

// ReplaceColumn swaps the values of an existing column. Replacing $key
// switches the table to caller supplied keys.
func (t *Table) ReplaceColumn(name string, values []interface{}) error {
	if !t.HasColumn(name) {
		return errors.Newf(errors.ErrorTypeSchema, "column %q not found", name).
			WithDetail("column", name)
	}
	col, err := t.newColumn(name, values)
	if err != nil {
		return err
	}

	var idx *keyindex.Index
	if name == datatype.KeyColumn {
		if idx, err = keyindex.Build(col.View()); err != nil {
			return err
		}
	}
	if err := t.columns.Replace(col); err != nil {
		return err
	}
	if idx != nil {
		t.index = idx
		t.customKeys = true
	}
	t.invalidate(name)
	return nil
}

// DeleteColumn removes a column. The $key column cannot be deleted.
func (t *Table) DeleteColumn(name string) error {
	if name == datatype.KeyColumn {
		return errors.Newf(errors.ErrorTypeSchema, "column %q cannot be deleted", name).
			WithDetail("column", name)
	}
	if !t.columns.Remove(name) {
		return errors.Newf(errors.ErrorTypeSchema, "column %q not found", name).
			WithDetail("column", name)
	}
	t.invalidate(name)
	return nil
}

// newColumn normalises values into a column of the table's length
func (t *Table) newColumn(name string, values []interface{}) (*columnar.Column, error) {
	if len(values) != t.NumRows() {
		return nil, errors.Newf(errors.ErrorTypeSchema,
			"column %q has length %d, expected %d", name, len(values), t.NumRows()).
			WithDetail("column", name)
	}
	normalized, err := normalizeValues(values, name)
	if err != nil {
		return nil, err
	}
	return columnar.NewColumn(name, normalized)
}
