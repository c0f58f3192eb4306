package pathquery

import "fmt"

// marshalAST converts a path to tagged records, one per segment in path
// order. The tag is taken from the owning descriptor, not the segment.
func marshalAST(registry *Registry, p Path) ([]Record, error) {
	records := make([]Record, 0, len(p))
	for i, seg := range p {
		d, err := registry.Lookup(seg.Type())
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		fields, err := d.Encode(seg)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}

		rec := make(Record, len(fields)+1)
		for field, value := range fields {
			rec[field] = value
		}
		rec[TypeField] = d.Type()
		records = append(records, rec)
	}
	return records, nil
}

// unmarshalAST reconstructs a path from tagged records. A tag without a
// descriptor on the target registry fails with ErrUnknownSegmentType and
// no partial path is returned.
func unmarshalAST(registry *Registry, records []Record) (Path, error) {
	path := make(Path, 0, len(records))
	for i, rec := range records {
		tag, err := recordString(rec, TypeField)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		d, err := registry.Lookup(tag)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		seg, err := d.Decode(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		path = append(path, seg)
	}
	return path, nil
}
