package flatten

// NamingMode controls how widen names the generated columns.
type NamingMode int

const (
	// NamingDefault lets the operation choose: Widen uses the record
	// key, Flatten prefixes.
	NamingDefault NamingMode = iota
	// NamingInner uses the record key as the column name. Collisions
	// with surviving or sibling-generated columns are an error.
	NamingInner
	// NamingPrefixed namespaces every generated name with the source
	// column and a separator, trading verbosity for uniqueness.
	NamingPrefixed
)

// DefaultSeparator joins the column name and the record key in
// NamingPrefixed mode.
const DefaultSeparator = "_"

type WidenOpts struct {
	Naming    NamingMode
	Separator string
}

func (o *WidenOpts) withDefaults() *WidenOpts {
	if o == nil {
		o = &WidenOpts{}
	}
	if o.Naming == NamingDefault {
		o.Naming = NamingInner
	}
	if o.Separator == "" {
		o.Separator = DefaultSeparator
	}
	return o
}

type LengthenOpts struct {
	// KeepEmpty emits one row with the absence marker for rows whose
	// sequence is empty, instead of dropping them.
	KeepEmpty bool
}

func (o *LengthenOpts) withDefaults() *LengthenOpts {
	if o == nil {
		o = &LengthenOpts{}
	}
	return o
}

// Opts configure the automatic Flatten loop. The zero value (and nil)
// selects prefixed naming, the default separator and the drop-empty
// policy.
type Opts struct {
	Naming    NamingMode
	Separator string
	KeepEmpty bool
}

// Flatten defaults to prefixed naming: generated names never collide,
// so the loop runs without intervention on arbitrary inputs.
func (o *Opts) withDefaults() *Opts {
	if o == nil {
		o = &Opts{}
	}
	if o.Naming == NamingDefault {
		o.Naming = NamingPrefixed
	}
	if o.Separator == "" {
		o.Separator = DefaultSeparator
	}
	return o
}
