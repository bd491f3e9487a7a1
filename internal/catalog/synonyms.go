package catalog

import (
	"encoding/csv"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// SynonymTable groups exercise names that mean the same thing. Names are
// normalized on insert, so lookups must use normalized names too.
type SynonymTable struct {
	groupOf map[string]int
	groups  int
}

func NewSynonymTable(groups [][]string) *SynonymTable {
	st := &SynonymTable{
		groupOf: make(map[string]int),
	}
	for _, group := range groups {
		st.addGroup(group)
	}
	return st
}

// NewSynonymTableFromCSV reads synonym groups from CSV, one group per record,
// names separated by semicolons:
//
//	press banca;bench press;press de banca;press de pecho
func NewSynonymTableFromCSV(synonymsCsvReader *csv.Reader) (*SynonymTable, error) {
	st := &SynonymTable{
		groupOf: make(map[string]int),
	}

	log.Println("reading exercise synonyms CSV ...")

	synonymsCsvReader.Comma = ';'
	synonymsCsvReader.FieldsPerRecord = -1
	for {
		record, err := synonymsCsvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if len(record) < 2 {
			return nil, fmt.Errorf("synonym record [%s] needs at least 2 names", record)
		}

		st.addGroup(record)
	}

	log.Printf("exercise synonyms CSV read, %d groups, %d names", st.groups, len(st.groupOf))

	return st, nil
}

func (st *SynonymTable) addGroup(names []string) {
	groupID := st.groups
	added := false
	for _, name := range names {
		normalized := NormalizeName(name)
		if normalized == "" {
			continue
		}
		if _, ok := st.groupOf[normalized]; ok {
			continue
		}
		st.groupOf[normalized] = groupID
		added = true
	}
	if added {
		st.groups++
	}
}

// SameGroup reports whether two normalized names belong to the same synonym group.
func (st *SynonymTable) SameGroup(normalizedA, normalizedB string) bool {
	groupA, okA := st.groupOf[normalizedA]
	groupB, okB := st.groupOf[normalizedB]
	return okA && okB && groupA == groupB
}
