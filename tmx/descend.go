package tmx

import (
	"fmt"

	"github.com/eak1mov/go-libtmx/tmx/spec"
)

type handler = func(attrs []spec.Attr) error

// descend consumes the children of the open element until its end tag,
// calling the handler registered for each child's name. The start tag of a
// child without a handler is ignored and scanning goes on inside it, unless
// the parser skips unknown subtrees whole. A handler error aborts the descent.
func (p *parser) descend(element string, handlers map[string]handler) error {
	for {
		ev, err := p.events.next()
		if err != nil {
			return err
		}

		switch ev.kind {
		case eventStartElement:
			h, ok := handlers[ev.name]
			if !ok {
				if err := p.skipUnknown(); err != nil {
					return err
				}
				continue
			}
			if err := h(ev.attrs); err != nil {
				return err
			}
		case eventEndElement:
			if ev.name == element {
				return nil
			}
		case eventEndDocument:
			return fmt.Errorf("%w: document ended before </%s>", spec.ErrPrematureEnd, element)
		}
	}
}

func (p *parser) skipUnknown() error {
	if !p.skipSubtrees {
		return nil
	}
	return p.events.skip()
}
