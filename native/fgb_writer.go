package native

import (
	"io"

	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
)

// writeFGB writes layer l with an optional CRS. Features without a
// geometry are skipped. Non-empty layers always get a spatial index so
// they can be read back.
func writeFGB(w io.Writer, l *Layer, crs *CRS) error {
	builder := flatbuffers.NewBuilder(4096)

	header := writer.NewHeader(builder)
	header.SetGeometryType(layerGeometryType(l.features))
	if l.name != "" {
		header.SetName(l.name)
	}

	if len(l.schema.fields) > 0 {
		columns := make([]*writer.Column, 0, len(l.schema.fields))
		for _, def := range l.schema.fields {
			ct, err := columnTypeFor(def.Type)
			if err != nil {
				return err
			}
			col := writer.NewColumn(builder)
			col.SetName(def.Name)
			col.SetTitle(def.Name) // JS readers show the title
			col.SetType(ct)
			col.SetNullable(true)
			columns = append(columns, col)
		}
		header.SetColumns(columns)
	}

	if crs != nil {
		c := writer.NewCrs(builder)
		c.SetOrg("EPSG")
		if crs.Code > 0 {
			c.SetCode(int32(crs.Code))
		}
		if crs.Name != "" {
			c.SetName(crs.Name)
		}
		switch {
		case crs.Description != "":
			c.SetDescription(crs.Description)
		case crs.WKT != "":
			c.SetDescription(crs.WKT)
		}
		header.SetCrs(c)
	}

	gen := &layerFeatureGenerator{features: l.features}
	for _, f := range l.features {
		// encode up front so property errors are reported
		if _, err := encodeProperties(f); err != nil {
			return err
		}
	}

	withIndex := false
	for _, f := range l.features {
		if f.geom != nil {
			withIndex = true
			break
		}
	}
	_, err := writer.NewWriter(header, withIndex, gen, nil).Write(w)
	return err
}

// layerFeatureGenerator feeds layer features to the FlatGeobuf writer.
type layerFeatureGenerator struct {
	features []*Feature
	index    int
}

func (g *layerFeatureGenerator) Generate() *writer.Feature {
	for g.index < len(g.features) {
		f := g.features[g.index]
		g.index++
		if f.geom == nil {
			continue
		}

		builder := flatbuffers.NewBuilder(1024)
		geom := encodeGeometry(f.geom.geom, builder)
		if geom == nil {
			continue
		}
		feature := writer.NewFeature(builder)
		feature.SetGeometry(geom)
		if props, _ := encodeProperties(f); len(props) > 0 {
			feature.SetProperties(props)
		}
		return feature
	}
	return nil
}
