package scan

import (
	"simpledb/record"
	"simpledb/tx"
)

// compareRows orders two rows lexicographically over sortFields, returning
// a negative, zero, or positive value the way Constant.CompareTo does.
func compareRows(a, b Scan, sortFields []string) (int, error) {
	for _, f := range sortFields {
		av, err := a.GetValue(f)
		if err != nil {
			return 0, err
		}
		bv, err := b.GetValue(f)
		if err != nil {
			return 0, err
		}
		if cmp := av.CompareTo(bv); cmp != 0 {
			return cmp, nil
		}
	}
	return 0, nil
}

func copyRow(src Scan, dst *record.TableScan, fields []string) error {
	if err := dst.Insert(); err != nil {
		return err
	}
	for _, f := range fields {
		v, err := src.GetValue(f)
		if err != nil {
			return err
		}
		if err := dst.SetValue(f, v); err != nil {
			return err
		}
	}
	return nil
}

// splitIntoRuns copies src into a sequence of temp tables, starting a new
// run whenever the current row sorts before the previous one.
func splitIntoRuns(t *tx.Transaction, src Scan, schema *record.Schema, sortFields []string) ([]*TempTable, error) {
	fields := schema.Fields()
	if err := src.BeforeFirst(); err != nil {
		return nil, err
	}
	ok, err := src.Next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return []*TempTable{NewTempTable(t, schema)}, nil
	}

	var runs []*TempTable
	currentTemp := NewTempTable(t, schema)
	runs = append(runs, currentTemp)
	currentScan, err := currentTemp.Open()
	if err != nil {
		return nil, err
	}
	if err := copyRow(src, currentScan, fields); err != nil {
		return nil, err
	}

	for {
		ok, err := src.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		cmp, err := compareRows(currentScan, src, sortFields)
		if err != nil {
			return nil, err
		}
		if cmp > 0 {
			if err := currentScan.Close(); err != nil {
				return nil, err
			}
			currentTemp = NewTempTable(t, schema)
			runs = append(runs, currentTemp)
			currentScan, err = currentTemp.Open()
			if err != nil {
				return nil, err
			}
		}
		if err := copyRow(src, currentScan, fields); err != nil {
			return nil, err
		}
	}
	if err := currentScan.Close(); err != nil {
		return nil, err
	}
	return runs, nil
}

// mergeTwoRuns merges the sorted runs r1 and r2 into a single new temp
// table.
func mergeTwoRuns(t *tx.Transaction, r1, r2 *TempTable, schema *record.Schema, sortFields []string) (*TempTable, error) {
	fields := schema.Fields()
	s1, err := r1.Open()
	if err != nil {
		return nil, err
	}
	s2, err := r2.Open()
	if err != nil {
		return nil, err
	}

	dest := NewTempTable(t, schema)
	destScan, err := dest.Open()
	if err != nil {
		return nil, err
	}

	has1, err := s1.Next()
	if err != nil {
		return nil, err
	}
	has2, err := s2.Next()
	if err != nil {
		return nil, err
	}

	for has1 && has2 {
		cmp, err := compareRows(s1, s2, sortFields)
		if err != nil {
			return nil, err
		}
		if cmp <= 0 {
			if err := copyRow(s1, destScan, fields); err != nil {
				return nil, err
			}
			has1, err = s1.Next()
		} else {
			if err := copyRow(s2, destScan, fields); err != nil {
				return nil, err
			}
			has2, err = s2.Next()
		}
		if err != nil {
			return nil, err
		}
	}
	for has1 {
		if err := copyRow(s1, destScan, fields); err != nil {
			return nil, err
		}
		has1, err = s1.Next()
		if err != nil {
			return nil, err
		}
	}
	for has2 {
		if err := copyRow(s2, destScan, fields); err != nil {
			return nil, err
		}
		has2, err = s2.Next()
		if err != nil {
			return nil, err
		}
	}
	if err := s1.Close(); err != nil {
		return nil, err
	}
	if err := s2.Close(); err != nil {
		return nil, err
	}
	if err := destScan.Close(); err != nil {
		return nil, err
	}
	if err := r1.Drop(); err != nil {
		return nil, err
	}
	if err := r2.Drop(); err != nil {
		return nil, err
	}
	return dest, nil
}

// mergeIteration merges runs pairwise, halving their count.
func mergeIteration(t *tx.Transaction, runs []*TempTable, schema *record.Schema, sortFields []string) ([]*TempTable, error) {
	var merged []*TempTable
	for i := 0; i+1 < len(runs); i += 2 {
		m, err := mergeTwoRuns(t, runs[i], runs[i+1], schema, sortFields)
		if err != nil {
			return nil, err
		}
		merged = append(merged, m)
	}
	if len(runs)%2 == 1 {
		merged = append(merged, runs[len(runs)-1])
	}
	return merged, nil
}

// SortMaterialize sorts src by sortFields via an external mergesort over
// temp tables and returns a single temp table holding the fully sorted
// result. Callers open it with TempTable.Open and are responsible for
// treating it as scratch (it is never referenced from the catalog).
func SortMaterialize(t *tx.Transaction, src Scan, schema *record.Schema, sortFields []string) (*TempTable, error) {
	runs, err := splitIntoRuns(t, src, schema, sortFields)
	if err != nil {
		return nil, err
	}
	for len(runs) > 1 {
		runs, err = mergeIteration(t, runs, schema, sortFields)
		if err != nil {
			return nil, err
		}
	}
	return runs[0], nil
}
