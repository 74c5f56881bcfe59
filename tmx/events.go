package tmx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/eak1mov/go-libtmx/tmx/spec"
)

type eventKind uint8

const (
	eventStartElement eventKind = iota
	eventEndElement
	eventCharacters
	eventEndDocument
)

type event struct {
	kind  eventKind
	name  string // local name, for start and end elements
	attrs []spec.Attr
	text  string
}

// eventReader turns the token stream of an xml.Decoder into a pull stream of
// element and character events. Comments, directives and processing
// instructions are dropped.
type eventReader struct {
	decoder *xml.Decoder
}

func newEventReader(r io.Reader) *eventReader {
	return &eventReader{decoder: xml.NewDecoder(r)}
}

func (r *eventReader) next() (event, error) {
	for {
		token, err := r.decoder.Token()
		if err == io.EOF {
			return event{kind: eventEndDocument}, nil
		}
		if err != nil {
			return event{}, tokenError(err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			attrs := make([]spec.Attr, len(t.Attr))
			for i, attr := range t.Attr {
				attrs[i] = spec.Attr{Name: attr.Name.Local, Value: attr.Value}
			}
			return event{kind: eventStartElement, name: t.Name.Local, attrs: attrs}, nil
		case xml.EndElement:
			return event{kind: eventEndElement, name: t.Name.Local}, nil
		case xml.CharData:
			return event{kind: eventCharacters, text: string(t)}, nil
		}
	}
}

// skip consumes the rest of the element whose start event was just returned.
func (r *eventReader) skip() error {
	if err := r.decoder.Skip(); err != nil {
		return tokenError(err)
	}
	return nil
}

// Once the tokenizer fails the stream is over. Malformed XML, including a
// document cut inside an open element, ends it prematurely; failures of the
// byte source or of the declared charset keep their own cause.
func tokenError(err error) error {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Errorf("%w: line %d: %s", spec.ErrPrematureEnd, syntaxErr.Line, syntaxErr.Msg)
	}
	return fmt.Errorf("reading document: %w", err)
}
