package collection

// Kind of a form field, used to normalize submitted values
type Kind string

const (
	KindString  Kind = "string"
	KindInt     Kind = "int"
	KindDecimal Kind = "decimal"
	KindRef     Kind = "ref"
	KindEnum    Kind = "enum"
)

// Op names an operation on a collection
type Op string

const (
	OpLoad   Op = "load"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpRemove Op = "remove"
)

// Ops is the set of mutations a resource allows. Load is always allowed.
type Ops uint8

const (
	CanCreate Ops = 1 << iota
	CanUpdate
	CanRemove

	ReadOnly   Ops = 0
	ListCreate     = CanCreate
	CRUD           = CanCreate | CanUpdate | CanRemove
)

// Has reports whether all of o are allowed
func (s Ops) Has(o Ops) bool { return s&o == o }

// Field describes one editable form field
type Field struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Kind     Kind     `json:"kind"`
	Rule     string   `json:"rule,omitempty"`
	Default  any      `json:"default,omitempty"`
	Optional bool     `json:"optional,omitempty"`
	Ref      string   `json:"ref,omitempty"`
	Options  []string `json:"options,omitempty"`
}

// SearchField extracts one searchable text value from a record
type SearchField[T any] struct {
	Name          string
	CaseSensitive bool
	Value         func(T) string
}

// Messages are the fixed notice texts of a resource
type Messages struct {
	LoadFailed   string `json:"load_failed"`
	Created      string `json:"created"`
	Updated      string `json:"updated"`
	Removed      string `json:"removed"`
	MutateFailed string `json:"mutate_failed"`
	RemoveFailed string `json:"remove_failed"`
}

// DefaultMessages returns the generic texts shared by most pages
func DefaultMessages(loadFailed string) Messages {
	return Messages{
		LoadFailed:   loadFailed,
		Created:      "创建成功",
		Updated:      "更新成功",
		Removed:      "删除成功",
		MutateFailed: "操作失败",
		RemoveFailed: "删除失败",
	}
}

// Schema is the declarative description of one resource
type Schema[T Identified] struct {
	Name     string
	Label    string
	Endpoint string
	Fields   []Field
	Search   []SearchField[T]
	Ops      Ops
	Messages Messages
}

// Descriptor is the non-generic view of a schema
type Descriptor struct {
	Name         string   `json:"name"`
	Label        string   `json:"label"`
	Endpoint     string   `json:"endpoint"`
	Fields       []Field  `json:"fields"`
	SearchFields []string `json:"search_fields"`
	CanCreate    bool     `json:"can_create"`
	CanUpdate    bool     `json:"can_update"`
	CanRemove    bool     `json:"can_remove"`
	Messages     Messages `json:"messages"`
}

// Descriptor describes the schema without its accessors
func (s Schema[T]) Descriptor() Descriptor {
	names := make([]string, len(s.Search))
	for i, f := range s.Search {
		names[i] = f.Name
	}
	return Descriptor{
		Name:         s.Name,
		Label:        s.Label,
		Endpoint:     s.Endpoint,
		Fields:       s.Fields,
		SearchFields: names,
		CanCreate:    s.Ops.Has(CanCreate),
		CanUpdate:    s.Ops.Has(CanUpdate),
		CanRemove:    s.Ops.Has(CanRemove),
		Messages:     s.Messages,
	}
}

// Field returns the named field
func (s Schema[T]) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
