package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/model"
)

// Page layout constants (US Letter landscape in mm).
const (
	pageWidth     = 279.4
	pageHeight    = 215.9
	marginLeft    = 12.0
	marginRight   = 12.0
	marginTop     = 12.0
	marginBottom  = 12.0
	headerHeight  = 10.0
	titleBlockW   = 62.0
	qrSize        = 30.0
	drawAreaTop   = marginTop + headerHeight + 4.0
	drawAreaRight = pageWidth - marginRight - titleBlockW - 4.0
)

// TitleInfo is encoded in the title block QR code.
type TitleInfo struct {
	Name        string  `json:"name"`
	TotalArea   int     `json:"total_area_sqft"`
	BoundaryFt2 int     `json:"boundary_area_sqft"`
	Rooms       int     `json:"rooms"`
	Lat         float64 `json:"lat,omitempty"`
	Lng         float64 `json:"lng,omitempty"`
	Generated   string  `json:"generated"`
}

// NewTitleInfo summarizes exp for the title block.
func NewTitleInfo(exp model.Export) TitleInfo {
	info := TitleInfo{
		Name:        exp.Name,
		TotalArea:   exp.TotalArea,
		BoundaryFt2: exp.Boundary.Area,
		Rooms:       len(exp.Rooms),
		Generated:   exp.GeneratedAt.Format("2006-01-02"),
	}
	if exp.Lot != nil {
		info.Lat, info.Lng = exp.Lot.Lat, exp.Lot.Lng
	}
	return info
}

// ExportPDF writes a floor-plan sheet followed by a room schedule page.
func ExportPDF(path string, exp model.Export) error {
	pdf := fpdf.New("L", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	if err := renderPlanPage(pdf, exp); err != nil {
		return err
	}
	pdf.AddPage()
	renderSchedulePage(pdf, exp)

	return pdf.OutputFileAndClose(path)
}

// renderPlanPage draws the plan with a title block on the right.
func renderPlanPage(pdf *fpdf.Fpdf, exp model.Export) error {
	f, err := newFit(exp, marginLeft, drawAreaTop, drawAreaRight-marginLeft, pageHeight-drawAreaTop-marginBottom)
	if err != nil {
		return err
	}

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(drawAreaRight-marginLeft, headerHeight, exp.Name+" Floor Plan", "", 0, "L", false, 0, "")

	// Boundary, dashed
	if len(exp.Boundary.Vertices) >= 3 {
		pdf.SetDashPattern([]float64{2, 1}, 0)
		pdf.SetDrawColor(boundaryColor.R, boundaryColor.G, boundaryColor.B)
		pdf.SetLineWidth(0.3)
		pdf.Polygon(pdfPoints(f, exp.Boundary.Vertices), "D")
		pdf.SetDashPattern([]float64{}, 0)
	}

	// Room fills and labels
	for _, r := range exp.Rooms {
		c := parseHex(r.Color)
		pdf.SetFillColor(c.R, c.G, c.B)
		pdf.Polygon(pdfPoints(f, r.Vertices), "F")
	}

	// Walls, with the openings cut out
	pdf.SetDrawColor(wallColor.R, wallColor.G, wallColor.B)
	pdf.SetLineWidth(0.8)
	for _, r := range exp.Rooms {
		for _, s := range r.Segments {
			drawSegment(pdf, f, s)
		}
	}

	drawOpenings(pdf, f, exp)
	drawFurniture(pdf, f, exp.Furniture)

	for _, r := range exp.Rooms {
		name, area := roomTitle(r)
		x, y := f.pt(r.Label)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "B", 8)
		centeredText(pdf, x, y-3.5, name)
		pdf.SetFont("Helvetica", "", 7)
		centeredText(pdf, x, y, area)
		if r.IsRect() {
			centeredText(pdf, x, y+3, dimensions(r.WidthFt, r.DepthFt))
		}
	}

	return renderTitleBlock(pdf, exp)
}

func pdfPoints(f fit, pts []geometry.Point) []fpdf.PointType {
	out := make([]fpdf.PointType, len(pts))
	for i, p := range pts {
		x, y := f.pt(p)
		out[i] = fpdf.PointType{X: x, Y: y}
	}
	return out
}

func drawSegment(pdf *fpdf.Fpdf, f fit, s geometry.Segment) {
	x1, y1 := f.pt(s.Start)
	x2, y2 := f.pt(s.End)
	pdf.Line(x1, y1, x2, y2)
}

// drawOpenings draws doors as filled bars and windows as outlined bars.
func drawOpenings(pdf *fpdf.Fpdf, f fit, exp model.Export) {
	pdf.SetLineWidth(0.3)
	for _, d := range exp.Doors {
		b := d.Bounds()
		x, y := f.pt(b.Min)
		pdf.SetFillColor(doorColor.R, doorColor.G, doorColor.B)
		pdf.SetDrawColor(doorColor.R, doorColor.G, doorColor.B)
		pdf.Rect(x, y, f.dist(b.Width()), f.dist(b.Height()), "FD")
	}
	for _, w := range exp.Windows {
		b := w.Bounds()
		x, y := f.pt(b.Min)
		pdf.SetFillColor(255, 255, 255)
		pdf.SetDrawColor(windowColor.R, windowColor.G, windowColor.B)
		pdf.Rect(x, y, f.dist(b.Width()), f.dist(b.Height()), "FD")
	}
}

func drawFurniture(pdf *fpdf.Fpdf, f fit, items []model.Furniture) {
	pdf.SetLineWidth(0.2)
	pdf.SetDrawColor(furnColor.R-60, furnColor.G-60, furnColor.B-60)
	pdf.SetFillColor(furnColor.R, furnColor.G, furnColor.B)
	pdf.SetFont("Helvetica", "", 5)
	pdf.SetTextColor(80, 80, 80)
	for _, it := range items {
		b := it.Bounds()
		x, y := f.pt(b.Min)
		w, h := f.dist(b.Width()), f.dist(b.Height())
		pdf.Rect(x, y, w, h, "FD")
		if label := furnitureLabel(it); w > pdf.GetStringWidth(label)+1 {
			centeredText(pdf, x+w/2, y+h/2-1.5, label)
		}
	}
	pdf.SetTextColor(0, 0, 0)
}

func furnitureLabel(f model.Furniture) string {
	if item, ok := model.LookupFurniture(f.Type); ok {
		return item.Label
	}
	return string(f.Type)
}

func centeredText(pdf *fpdf.Fpdf, cx, y float64, s string) {
	w := pdf.GetStringWidth(s)
	pdf.SetXY(cx-w/2, y)
	pdf.CellFormat(w, 3, s, "", 0, "C", false, 0, "")
}

// renderTitleBlock draws the project summary box with its QR code.
func renderTitleBlock(pdf *fpdf.Fpdf, exp model.Export) error {
	x := pageWidth - marginRight - titleBlockW
	y := drawAreaTop
	h := pageHeight - drawAreaTop - marginBottom

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.4)
	pdf.Rect(x, y, titleBlockW, h, "D")

	info := NewTitleInfo(exp)
	rows := []struct {
		label string
		value string
	}{
		{"Project", info.Name},
		{"Room area", fmt.Sprintf("%d sq ft", info.TotalArea)},
		{"Footprint", fmt.Sprintf("%d sq ft", info.BoundaryFt2)},
		{"Rooms", fmt.Sprintf("%d", info.Rooms)},
		{"Doors / windows", fmt.Sprintf("%d / %d", len(exp.Doors), len(exp.Windows))},
		{"Date", info.Generated},
	}
	if exp.Lot != nil {
		rows = append(rows, struct {
			label string
			value string
		}{"Location", fmt.Sprintf("%.5f, %.5f", info.Lat, info.Lng)})
	}

	ty := y + 4
	for _, r := range rows {
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetXY(x+3, ty)
		pdf.CellFormat(titleBlockW-6, 3.5, r.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetXY(x+3, ty+3.5)
		pdf.CellFormat(titleBlockW-6, 4.5, r.value, "", 0, "L", false, 0, "")
		ty += 10
	}

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal title info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	pdf.RegisterImageOptionsReader("title_qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions("title_qr", x+(titleBlockW-qrSize)/2, y+h-qrSize-4, qrSize, qrSize, false,
		fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return nil
}

// renderSchedulePage draws the room schedule table.
func renderSchedulePage(pdf *fpdf.Fpdf, exp model.Export) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Room Schedule", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	colWidths := []float64{12, 60, 35, 40, 30, 40}
	headers := []string{"#", "Room", "Type", "Size", "Area", "Wall length"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, r := range exp.Rooms {
		name, _ := roomTitle(r)
		size := "-"
		if r.IsRect() {
			size = dimensions(r.WidthFt, r.DepthFt)
		}
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			name,
			string(r.Type),
			size,
			fmt.Sprintf("%d sq ft", r.Area),
			feet(effectiveWallLength(r)),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
		if y > pageHeight-marginBottom-20 {
			pdf.AddPage()
			y = marginTop
		}
	}

	y += 6
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 6, fmt.Sprintf("Total room area: %d sq ft", exp.TotalArea), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by ADUPlanner", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// effectiveWallLength sums a room's wall lengths minus door and window widths.
func effectiveWallLength(r model.ExportRoom) float64 {
	var total float64
	for _, w := range r.Walls {
		total += w.EffectiveLength
	}
	return total
}
