package model

// Record is the data structure for a person in the address book.
// All fields are optional. A nil field is unknown, which is not the same as a field holding the
// empty string.
type Record struct {
	Family       *string `json:"family,omitempty"        db:"family"        validate:"required,min=1,excludesall=;"`
	Name         *string `json:"name,omitempty"          db:"name"          validate:"required,min=1,excludesall=;"`
	Surname      *string `json:"surname,omitempty"       db:"surname"       validate:"required,min=1,excludesall=;"`
	Organization *string `json:"organization,omitempty"  db:"organization"  validate:"required,min=1,excludesall=;"`
	WorkingPhone *string `json:"working_phone,omitempty" db:"working_phone" validate:"required,min=1,phone"`
	MobilePhone  *string `json:"mobile_phone,omitempty"  db:"mobile_phone"  validate:"required,min=1,phone"`
}

// String returns a pointer to a copy of s. It is meant for building records and queries.
func String(s string) *string {
	return &s
}

// Get returns the value of the field f, or nil if the field is absent.
func (r *Record) Get(f Field) *string {
	switch f {
	case Family:
		return r.Family
	case Name:
		return r.Name
	case Surname:
		return r.Surname
	case Organization:
		return r.Organization
	case WorkingPhone:
		return r.WorkingPhone
	case MobilePhone:
		return r.MobilePhone
	}
	return nil
}

// Set stores a copy of value in the field f.
func (r *Record) Set(f Field, value string) {
	r.set(f, String(value))
}

// Clear marks the field f as absent.
func (r *Record) Clear(f Field) {
	r.set(f, nil)
}

func (r *Record) set(f Field, value *string) {
	switch f {
	case Family:
		r.Family = value
	case Name:
		r.Name = value
	case Surname:
		r.Surname = value
	case Organization:
		r.Organization = value
	case WorkingPhone:
		r.WorkingPhone = value
	case MobilePhone:
		r.MobilePhone = value
	}
}

// Value returns the field's value, or the empty string when it is absent.
func (r *Record) Value(f Field) string {
	if v := r.Get(f); v != nil {
		return *v
	}
	return ""
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := &Record{}
	for _, f := range Fields {
		if v := r.Get(f); v != nil {
			c.Set(f, *v)
		}
	}
	return c
}
