package dataset

import (
	"fmt"
	"strings"
)

// Table names one of the recognized tables of the DTPR base. Names are case-
// and spelling-exact.
type Table string

const (
	Places         Table = "Places"
	Components     Table = "Components"
	Accountability Table = "Accountability"
	Purpose        Table = "Purpose"
	TechnologyType Table = "Technology Type"
	DataType       Table = "Data Type"
	DataProcess    Table = "Data Process"
	Access         Table = "Access"
	Storage        Table = "Storage"
	Connections    Table = "Connections"
)

// Tables lists every recognized table in export order.
var Tables = []Table{
	Places,
	Components,
	Accountability,
	Purpose,
	TechnologyType,
	DataType,
	DataProcess,
	Access,
	Storage,
	Connections,
}

func (t Table) Valid() bool {
	for _, known := range Tables {
		if t == known {
			return true
		}
	}
	return false
}

func (t Table) String() string {
	return string(t)
}

// ParseTable returns the recognized table with the given name.
func ParseTable(name string) (Table, error) {
	t := Table(name)
	if !t.Valid() {
		return "", invalidTable(t)
	}
	return t, nil
}

func invalidTable(t Table) error {
	names := make([]string, len(Tables))
	for i, known := range Tables {
		names[i] = string(known)
	}
	return fmt.Errorf("%w: %q (expected one of %s)", ErrInvalidTable, string(t), strings.Join(names, ", "))
}
