package quote

import "github.com/shopspring/decimal"

// Mutation helpers for the quotation editor. All of them are pure: they
// return a new Quotation and never modify the input, so the hosting screen
// performs the state swap itself. Targets are addressed by id, never by
// position, and a missing id is a no-op because the entry being "already
// gone" is benign from the operator's point of view.

func cloneSections(sections []Section) []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}

// AddSection appends a section.
func AddSection(q Quotation, s Section) Quotation {
	q.Sections = append(cloneSections(q.Sections), s)
	return q
}

// RemoveSection drops the section with the given id.
func RemoveSection(q Quotation, sectionID string) Quotation {
	out := make([]Section, 0, len(q.Sections))
	removed := false
	for _, s := range q.Sections {
		if s.ID == sectionID {
			removed = true
			continue
		}
		out = append(out, s)
	}
	if !removed {
		return q
	}
	q.Sections = out
	return q
}

// UpdateSection replaces the labels of the section with a matching id,
// leaving its lines untouched.
func UpdateSection(q Quotation, s Section) Quotation {
	for i, existing := range q.Sections {
		if existing.ID != s.ID {
			continue
		}
		sections := cloneSections(q.Sections)
		updated := existing
		updated.Title = s.Title
		updated.SizeLabel = s.SizeLabel
		updated.TypeLabel = s.TypeLabel
		sections[i] = updated
		q.Sections = sections
		return q
	}
	return q
}

// AddLine appends a line to the section with the given id.
func AddLine(q Quotation, sectionID string, l Line) Quotation {
	for i, s := range q.Sections {
		if s.ID != sectionID {
			continue
		}
		sections := cloneSections(q.Sections)
		section := s
		section.Lines = append(cloneLines(s.Lines), l)
		sections[i] = section
		q.Sections = sections
		return q
	}
	return q
}

// RemoveLine drops the line with the given id from the given section.
func RemoveLine(q Quotation, sectionID, lineID string) Quotation {
	for i, s := range q.Sections {
		if s.ID != sectionID {
			continue
		}
		lines := make([]Line, 0, len(s.Lines))
		removed := false
		for _, l := range s.Lines {
			if l.ID == lineID {
				removed = true
				continue
			}
			lines = append(lines, l)
		}
		if !removed {
			return q
		}
		sections := cloneSections(q.Sections)
		section := s
		section.Lines = lines
		sections[i] = section
		q.Sections = sections
		return q
	}
	return q
}

// UpdateLine replaces the line whose id matches l.ID within the section.
func UpdateLine(q Quotation, sectionID string, l Line) Quotation {
	for i, s := range q.Sections {
		if s.ID != sectionID {
			continue
		}
		for j, existing := range s.Lines {
			if existing.ID != l.ID {
				continue
			}
			sections := cloneSections(q.Sections)
			section := s
			section.Lines = cloneLines(s.Lines)
			section.Lines[j] = l
			sections[i] = section
			q.Sections = sections
			return q
		}
		return q
	}
	return q
}

// SetGlobalDiscount replaces the document-level discount percentage. The
// clamp to [0, 100] happens at computation time, not here, so the operator
// sees what they typed.
func SetGlobalDiscount(q Quotation, percent decimal.Decimal) Quotation {
	q.GlobalDiscountPercent = percent
	return q
}
