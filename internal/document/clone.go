package document

// Clone returns a deep copy of the presentation. Undo snapshots rely on this
// to freeze state without sharing the property pointers of live elements.
func (p *Presentation) Clone() *Presentation {
	cp := *p
	cp.Slides = make([]Slide, len(p.Slides))
	for i := range p.Slides {
		cp.Slides[i] = *p.Slides[i].Clone()
	}
	return &cp
}

// Clone returns a deep copy of the slide.
func (s *Slide) Clone() *Slide {
	cp := *s
	cp.Elements = make([]Element, len(s.Elements))
	for i := range s.Elements {
		cp.Elements[i] = s.Elements[i].Clone()
	}
	return &cp
}

// Clone returns a deep copy of the element, including its typed properties.
func (e Element) Clone() Element {
	cp := e
	if e.Text != nil {
		t := *e.Text
		cp.Text = &t
	}
	if e.Shape != nil {
		sh := *e.Shape
		cp.Shape = &sh
	}
	if e.Image != nil {
		im := *e.Image
		cp.Image = &im
	}
	return cp
}
