package core

type SchemaType int

const (
	// SchemaFul streams carry a fixed set of named columns (sql results).
	SchemaFul SchemaType = iota
	// SchemaLess streams carry one document per row (files, document stores).
	SchemaLess
)

type (
	// FormatterOpts provide various options for formatters
	FormatterOpts struct {
		SchemaType SchemaType
		ChunkStart int
	}

	// Formatter converts header and rows to bytes
	Formatter interface {
		Format(header Header, rows []Row, opts *FormatterOpts) ([]byte, error)
	}
)

type (
	// Row and Header are attributes of a DocumentStream
	Row    []Cell
	Header []string

	// Meta holds stream metadata
	Meta struct {
		SchemaType SchemaType
	}

	// DocumentStream is how sources deliver documents - an iterator
	// over rows whose cells may still hold nested values.
	DocumentStream interface {
		Meta() *Meta
		Header() Header
		Next() (Row, error)
		HasNext() bool
		Close()
	}
)

type StructureType int

const (
	StructureTypeNone StructureType = iota
	StructureTypeTable
	StructureTypeView
	StructureTypeCollection
)

func (s StructureType) String() string {
	switch s {
	case StructureTypeTable:
		return "table"
	case StructureTypeView:
		return "view"
	case StructureTypeCollection:
		return "collection"
	default:
		return ""
	}
}

// Structure describes what a source holds (schemas, tables, collections).
type Structure struct {
	// Name to be displayed
	Name   string
	Schema string
	Type   StructureType
	// Children layout nodes
	Children []*Structure
}

// GetGenericStructure builds a structure tree from a stream of
// (schema, name, type) rows, the common shape of catalog queries.
func GetGenericStructure(stream DocumentStream, typeConv func(string) StructureType) ([]*Structure, error) {
	bySchema := make(map[string][]*Structure)
	var schemaOrder []string

	for stream.HasNext() {
		row, err := stream.Next()
		if err != nil {
			return nil, err
		}
		if len(row) < 3 {
			continue
		}

		schema, name, typ := row[0].String(), row[1].String(), row[2].String()
		if _, ok := bySchema[schema]; !ok {
			schemaOrder = append(schemaOrder, schema)
		}
		bySchema[schema] = append(bySchema[schema], &Structure{
			Name:   name,
			Schema: schema,
			Type:   typeConv(typ),
		})
	}

	var structure []*Structure
	for _, schema := range schemaOrder {
		structure = append(structure, &Structure{
			Name:     schema,
			Schema:   schema,
			Type:     StructureTypeNone,
			Children: bySchema[schema],
		})
	}

	return structure, nil
}
