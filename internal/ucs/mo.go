package ucs

import (
	"encoding/xml"
	"maps"
	"slices"
)

// Status is the configuration status carried by an object in configConfMos.
type Status string

const (
	StatusCreated  Status = "created"
	StatusModified Status = "modified"
	StatusDeleted  Status = "deleted"
)

// ManagedObject is a node of the UCS Manager object tree.
//
// Objects returned by queries carry their DN and properties. Objects built with
// Stage additionally carry a status and are linked to their parent; staged
// children are committed together with their root.
type ManagedObject struct {
	ClassID    ClassID
	DN         DN
	RN         string
	Properties Properties
	Status     Status
	Children   []*ManagedObject

	parent *ManagedObject
}

// Stage builds a new object of class under parent, entirely in memory. When the
// parent is itself staged the new object becomes one of its children and is
// committed with it. Nothing is sent to the endpoint.
func Stage(parent *ManagedObject, class ClassID, props Properties) (*ManagedObject, error) {
	if parent == nil || parent.DN.IsZero() {
		return nil, NewInvalidArgumentError("stage", "%s requires a parent with a DN", class)
	}

	rn, err := RN(class, props)
	if err != nil {
		return nil, err
	}

	mo := &ManagedObject{
		ClassID:    class,
		DN:         parent.DN.Child(rn),
		RN:         rn,
		Properties: props.Clone(),
		Status:     StatusCreated,
		parent:     parent,
	}

	if parent.Staged() {
		parent.Children = append(parent.Children, mo)
	}
	return mo, nil
}

// Parent returns the object this one was staged or queried under, if known.
func (m *ManagedObject) Parent() *ManagedObject {
	return m.parent
}

// Staged reports whether the object was built locally and not yet committed.
func (m *ManagedObject) Staged() bool {
	return m.Status == StatusCreated
}

// Name returns the "name" property.
func (m *ManagedObject) Name() string {
	return m.Properties["name"]
}

// Get returns a property value.
func (m *ManagedObject) Get(property string) string {
	return m.Properties[property]
}

// Walk visits the object and every staged descendant, depth first.
func (m *ManagedObject) Walk(fn func(*ManagedObject)) {
	fn(m)
	for _, child := range m.Children {
		child.Walk(fn)
	}
}

// MarshalXML encodes the object as an element named after its class. The root
// element carries the full DN; nested children carry only their RN.
func (m *ManagedObject) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	return m.encode(e, false)
}

func (m *ManagedObject) encode(e *xml.Encoder, nested bool) error {
	start := xml.StartElement{Name: xml.Name{Local: m.ClassID.String()}}

	if nested {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "rn"}, Value: m.RN})
	} else {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "dn"}, Value: m.DN.String()})
	}
	for _, k := range slices.Sorted(maps.Keys(m.Properties)) {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: k}, Value: m.Properties[k]})
	}
	if m.Status != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "status"}, Value: string(m.Status)})
	}

	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, child := range m.Children {
		if err := child.encode(e, true); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// UnmarshalXML decodes an element named after its class. Nested elements become
// children; a child without a DN derives one from its RN.
func (m *ManagedObject) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	m.ClassID = ClassID(start.Name.Local)
	m.Properties = make(Properties, len(start.Attr))

	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "dn":
			m.DN = DN(attr.Value)
		case "rn":
			m.RN = attr.Value
		case "status":
			m.Status = Status(attr.Value)
		case "childAction":
		default:
			m.Properties[attr.Name.Local] = attr.Value
		}
	}
	if m.RN == "" && !m.DN.IsZero() {
		m.RN = m.DN.RN()
	}

	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child := &ManagedObject{}
			if err := child.UnmarshalXML(d, t); err != nil {
				return err
			}
			m.Children = append(m.Children, child)
		case xml.EndElement:
			m.linkChildren()
			return nil
		}
	}
}

// linkChildren sets parent links and derives missing child DNs.
func (m *ManagedObject) linkChildren() {
	for _, child := range m.Children {
		child.parent = m
		if child.DN.IsZero() && !m.DN.IsZero() {
			child.DN = m.DN.Child(child.RN)
		}
		child.linkChildren()
	}
}
