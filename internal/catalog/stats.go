package catalog

// Stats summarizes the loaded dataset for discovery surfaces.
type Stats struct {
	Total      int            `json:"total_exercises"`
	ByType     map[string]int `json:"by_type"`
	ByBodyPart map[string]int `json:"by_body_part"`
	ByLevel    map[string]int `json:"by_level"`
}

// Stats counts loaded records by type, body part, and level.
func (c *Catalog) Stats() Stats {
	s := Stats{
		Total:      len(c.records),
		ByType:     map[string]int{},
		ByBodyPart: map[string]int{},
		ByLevel:    map[string]int{},
	}
	for _, rec := range c.records {
		s.ByType[rec.Type]++
		s.ByBodyPart[rec.BodyPart]++
		s.ByLevel[rec.Level]++
	}
	return s
}
