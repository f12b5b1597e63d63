package client

// Record is a loosely typed API record.
type Record map[string]any

func (r Record) str(key string) string {
	if r == nil {
		return ""
	}
	value, _ := r[key].(string)
	return value
}

// ID returns the record id.
func (r Record) ID() string { return r.str("id") }

// CollectionName returns the name of the collection the record belongs to.
func (r Record) CollectionName() string { return r.str("collectionName") }

// CollectionID returns the id of the collection the record belongs to.
func (r Record) CollectionID() string { return r.str("collectionId") }

// Clone returns a shallow copy.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	ret := make(Record, len(r))
	for k, v := range r {
		ret[k] = v
	}
	return ret
}

// AuthResponse is returned by the record auth endpoints.
type AuthResponse struct {
	Token  string         `json:"token"`
	Record Record         `json:"record"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// Field describes a collection field.
type Field struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Protected bool   `json:"protected,omitempty"`
}

// Collection describes a collection schema.
type Collection struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Fields []*Field `json:"fields,omitempty"`
}

// HasProtectedFiles reports whether any file field of the collection is protected.
func (c *Collection) HasProtectedFiles() bool {
	for _, field := range c.Fields {
		if field != nil && field.Type == "file" && field.Protected {
			return true
		}
	}
	return false
}
