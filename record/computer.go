package record

import "log"

// Computer derives signatures from records. It is constructed with the
// explicit list of field names whose changes should trigger a visual update;
// volatile fields left off the list never cause a rebuild.
//
// Compute is pure and performs no I/O, so a single Computer may be shared by
// concurrent readers.
type Computer struct {
	fields []string
	logger *log.Logger
}

// ComputerOption configures a Computer.
type ComputerOption func(*Computer)

// WithLogger routes data-quality warnings to logger instead of log.Default().
func WithLogger(logger *log.Logger) ComputerOption {
	return func(c *Computer) { c.logger = logger }
}

// NewComputer builds a Computer reading the given display-relevant fields, in
// order. The record ID is always the first component of every signature.
func NewComputer(fields []string, opts ...ComputerOption) *Computer {
	c := &Computer{
		fields: append([]string(nil), fields...),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fields returns the field names the Computer reads, in signature order.
func (c *Computer) Fields() []string {
	return append([]string(nil), c.fields...)
}

// Compute maps a record to its signature. A missing field is encoded as a
// sentinel rather than failing: a record that cannot produce a complete
// signature must still be renderable. The miss is logged once per call as a
// data-quality warning.
func (c *Computer) Compute(rec Record) Signature {
	parts := make([]string, 0, len(c.fields)+1)
	parts = append(parts, rec.ID)
	for _, name := range c.fields {
		v, ok := rec.Field(name)
		if !ok {
			parts = append(parts, missingSentinel)
			c.logger.Printf("record %q: missing signature field %q", rec.ID, name)
			continue
		}
		parts = append(parts, FormatValue(v))
	}
	return signature(parts)
}

// ComputeAll maps a page slice to its positional signature list.
func (c *Computer) ComputeAll(recs []Record) []Signature {
	if len(recs) == 0 {
		return nil
	}
	sigs := make([]Signature, len(recs))
	for i, rec := range recs {
		sigs[i] = c.Compute(rec)
	}
	return sigs
}
