package serializer

import (
	"encoding/xml"
	"errors"
	"io"
)

type xmlSerializer struct{}

// XML returns the structured-markup serializer. Lists must be wrapped in an
// Envelope before Marshal and unwrapped after Unmarshal.
func XML() Serializer { return xmlSerializer{} }

func (xmlSerializer) Type() Format { return FormatXML }

func (xmlSerializer) Marshal(v any) ([]byte, error) {
	b, err := xml.Marshal(v)
	if err != nil {
		return nil, &Error{Format: FormatXML, Op: "marshal", Err: err}
	}
	return b, nil
}

func (xmlSerializer) Unmarshal(data []byte, v any) error {
	if err := xml.Unmarshal(data, v); err != nil {
		return &Error{Format: FormatXML, Op: "unmarshal", Err: err}
	}
	return nil
}

// Envelope is the XML container for list payloads: a Root element holding
// one Item element per entry. JSON lists are sent bare and never use it.
type Envelope[T any] struct {
	Root  string
	Item  string
	Items []T
}

// Wrap builds the envelope for items.
func Wrap[T any](root, item string, items []T) *Envelope[T] {
	return &Envelope[T]{Root: root, Item: item, Items: items}
}

// Unwrap returns the plain slice held by the envelope.
func (e *Envelope[T]) Unwrap() []T {
	if e == nil {
		return nil
	}
	return e.Items
}

func (e *Envelope[T]) MarshalXML(enc *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Root}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for i := range e.Items {
		if err := enc.EncodeElement(e.Items[i], xml.StartElement{Name: xml.Name{Local: e.Item}}); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// UnmarshalXML accepts any root name and decodes every child element whose
// name matches Item. When Item is empty every child is decoded.
func (e *Envelope[T]) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	if e.Root != "" && start.Name.Local != e.Root {
		return errors.New("unexpected root element <" + start.Name.Local + ">, want <" + e.Root + ">")
	}
	e.Items = e.Items[:0]
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if e.Item != "" && t.Name.Local != e.Item {
				if err := dec.Skip(); err != nil {
					return err
				}
				continue
			}
			var item T
			if err := dec.DecodeElement(&item, &t); err != nil {
				return err
			}
			e.Items = append(e.Items, item)
		case xml.EndElement:
			return nil
		}
	}
}

// Element names a single value's XML root. Single documents and collections
// are sent this way; the model types carry no XMLName of their own.
type Element[T any] struct {
	Name  string
	Value T
}

func (e *Element[T]) MarshalXML(enc *xml.Encoder, _ xml.StartElement) error {
	return enc.EncodeElement(e.Value, xml.StartElement{Name: xml.Name{Local: e.Name}})
}

func (e *Element[T]) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	e.Name = start.Name.Local
	return dec.DecodeElement(&e.Value, &start)
}
