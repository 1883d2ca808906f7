package export

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/printforge/terraprint/internal/mesh"
)

// 3MF is an OPC package: a zip with fixed content-type and relationship
// parts and the model document under 3D/3dmodel.xml.
const (
	threeMFContentTypes = `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
 <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
 <Default Extension="model" ContentType="application/vnd.ms-package.3dmanufacturing-3dmodel+xml"/>
</Types>`

	threeMFRels = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
 <Relationship Id="rel0" Target="/3D/3dmodel.xml" Type="http://schemas.microsoft.com/3dmanufacturing/2013/01/3dmodel"/>
</Relationships>`
)

type threeMFModel struct {
	XMLName   xml.Name     `xml:"model"`
	Unit      string       `xml:"unit,attr"`
	Lang      string       `xml:"xml:lang,attr"`
	XMLNS     string       `xml:"xmlns,attr"`
	Resources threeMFRes   `xml:"resources"`
	Build     threeMFBuild `xml:"build"`
}

type threeMFRes struct {
	Materials threeMFMaterials `xml:"basematerials"`
	Objects   []threeMFObject  `xml:"object"`
}

type threeMFMaterials struct {
	ID    int           `xml:"id,attr"`
	Bases []threeMFBase `xml:"base"`
}

type threeMFBase struct {
	Name  string `xml:"name,attr"`
	Color string `xml:"displaycolor,attr"`
}

type threeMFObject struct {
	ID     int         `xml:"id,attr"`
	Type   string      `xml:"type,attr"`
	Name   string      `xml:"name,attr"`
	PID    int         `xml:"pid,attr"`
	PIndex int         `xml:"pindex,attr"`
	Mesh   threeMFMesh `xml:"mesh"`
}

type threeMFMesh struct {
	Vertices  []threeMFVertex   `xml:"vertices>vertex"`
	Triangles []threeMFTriangle `xml:"triangles>triangle"`
}

type threeMFVertex struct {
	X float64 `xml:"x,attr"`
	Y float64 `xml:"y,attr"`
	Z float64 `xml:"z,attr"`
}

type threeMFTriangle struct {
	V1 uint32 `xml:"v1,attr"`
	V2 uint32 `xml:"v2,attr"`
	V3 uint32 `xml:"v3,attr"`
}

type threeMFBuild struct {
	Items []threeMFItem `xml:"item"`
}

type threeMFItem struct {
	ObjectID int `xml:"objectid,attr"`
}

// Write3MF writes the assembly as a single 3MF package. Each solid becomes
// its own model object bound to its band color, so multi-material slicers
// can assign one filament per band.
func Write3MF(w io.Writer, asm *mesh.Assembly, palette []color.RGBA) error {
	const materialsID = 1

	model := threeMFModel{
		Unit:  "millimeter",
		Lang:  "en-US",
		XMLNS: "http://schemas.microsoft.com/3dmanufacturing/core/2015/02",
		Resources: threeMFRes{
			Materials: threeMFMaterials{ID: materialsID},
		},
	}

	for i, s := range asm.Solids {
		c := paletteColor(palette, s.Band)
		model.Resources.Materials.Bases = append(model.Resources.Materials.Bases,
			threeMFBase{Name: s.Name, Color: hexColor(c)})

		obj := threeMFObject{
			ID:     materialsID + 1 + i,
			Type:   "model",
			Name:   s.Name,
			PID:    materialsID,
			PIndex: i,
		}
		for _, v := range s.Vertices {
			obj.Mesh.Vertices = append(obj.Mesh.Vertices,
				threeMFVertex{X: v[0], Y: v[1], Z: v[2]})
		}
		for _, f := range s.Faces {
			obj.Mesh.Triangles = append(obj.Mesh.Triangles,
				threeMFTriangle{V1: f[0], V2: f[1], V3: f[2]})
		}
		model.Resources.Objects = append(model.Resources.Objects, obj)
		model.Build.Items = append(model.Build.Items,
			threeMFItem{ObjectID: obj.ID})
	}

	zw := zip.NewWriter(w)

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", threeMFContentTypes},
		{"_rels/.rels", threeMFRels},
	}
	for _, p := range parts {
		pw, err := zw.Create(p.name)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(pw, p.body); err != nil {
			return err
		}
	}

	mw, err := zw.Create("3D/3dmodel.xml")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(mw, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(mw)
	if err := enc.Encode(model); err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}

	return zw.Close()
}

// Write3MFFile writes the assembly to a new 3MF file.
func Write3MFFile(path string, asm *mesh.Assembly, palette []color.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write3MF(f, asm, palette); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
