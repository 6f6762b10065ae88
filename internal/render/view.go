// Package render projects backend analysis records into display views. It never mutates the
// records it reads and never fails on missing or malformed fields.
package render

import (
	"fmt"

	"lpr-console/internal/domain/lpr"
	"lpr-console/internal/i18n"
)

const maxRawReads = 20

type Renderer struct {
	cat *i18n.Catalog
	lbl labeler
}

func New(cat *i18n.Catalog) *Renderer {
	return &Renderer{cat: cat, lbl: labeler{cat: cat}}
}

type NotFound struct {
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
}

type RawReadView struct {
	Text       string `json:"text"`
	Confidence string `json:"confidence"`
	Variant    string `json:"variant"`
}

type DebugView struct {
	DetectionModel string `json:"detection_model,omitempty"`
	OCREngine      string `json:"ocr_engine,omitempty"`
}

type PlateView struct {
	Index               int           `json:"index"`
	Number              string        `json:"number,omitempty"`
	NotFound            *NotFound     `json:"not_found,omitempty"`
	Badge               Badge         `json:"badge"`
	Governorate         string        `json:"governorate"`
	GovernorateCode     string        `json:"governorate_code"`
	VehicleType         string        `json:"vehicle_type"`
	PlateType           string        `json:"plate_type"`
	PlateColor          string        `json:"plate_color"`
	DetectionConfidence string        `json:"detection_confidence"`
	OCRConfidence       string        `json:"ocr_confidence"`
	VehicleConfidence   string        `json:"vehicle_confidence,omitempty"`
	SegmentationQuality string        `json:"segmentation_quality,omitempty"`
	SegmentationClass   string        `json:"segmentation_class,omitempty"`
	RawReads            []RawReadView `json:"raw_reads,omitempty"`
	Debug               *DebugView    `json:"debug,omitempty"`
}

type ImageView struct {
	Count         int         `json:"count"`
	ExecutionTime string      `json:"execution_time,omitempty"`
	Plates        []PlateView `json:"plates"`
	OverlayURL    string      `json:"overlay_url,omitempty"`
	NotFound      *NotFound   `json:"not_found,omitempty"`
}

type PlateSummaryView struct {
	Number        string `json:"number"`
	Occurrences   int    `json:"occurrences"`
	MaxConfidence string `json:"max_confidence"`
}

type VideoView struct {
	UniquePlates      int                `json:"unique_plates"`
	DetectionsCount   int                `json:"detections_count"`
	ProcessedFrames   int                `json:"processed_frames"`
	ExecutionTime     string             `json:"execution_time,omitempty"`
	Plates            []PlateSummaryView `json:"plates"`
	ProcessedVideoURL string             `json:"processed_video_url,omitempty"`
}

func (r *Renderer) notFound() *NotFound {
	return &NotFound{
		Message: r.cat.T(i18n.PlateNotFound),
		Suggestions: []string{
			r.cat.T(i18n.SuggestClearer),
			r.cat.T(i18n.SuggestVisible),
			r.cat.T(i18n.SuggestLight),
		},
	}
}

func (r *Renderer) Image(res *lpr.Result) ImageView {
	var rec lpr.Record
	if res != nil {
		rec = res.Record
	}
	results := rec.Records("results")

	view := ImageView{
		Plates:        make([]PlateView, 0, len(results)),
		ExecutionTime: r.seconds(rec),
	}
	if res != nil {
		view.Count = res.PlatesFound()
	}
	if len(results) == 0 {
		view.NotFound = r.notFound()
		return view
	}

	for i, p := range results {
		view.Plates = append(view.Plates, r.Plate(i, p))
	}
	if url, ok := displayText(rec, "overlay_image_url"); ok {
		view.OverlayURL = url
	}
	return view
}

func (r *Renderer) Plate(index int, rec lpr.Record) PlateView {
	ocr, _ := rec.Float("ocr_confidence")

	view := PlateView{
		Index:               index,
		Badge:               newBadge(ocr, r.cat),
		Governorate:         r.lbl.governorate(rec),
		GovernorateCode:     r.lbl.governorateCode(rec),
		VehicleType:         r.lbl.vehicleType(rec),
		PlateType:           r.lbl.plateType(rec),
		PlateColor:          r.lbl.plateColor(rec),
		DetectionConfidence: r.percent(rec, "detection_confidence", 1),
		OCRConfidence:       r.percent(rec, "ocr_confidence", 1),
	}

	if number, ok := PlateNumber(rec); ok {
		view.Number = number
	} else {
		view.NotFound = r.notFound()
	}

	if _, ok := rec.Float("vehicle_confidence"); ok {
		view.VehicleConfidence = r.percent(rec, "vehicle_confidence", 1)
	}
	if _, ok := rec.Float("segmentation_quality"); ok {
		view.SegmentationQuality = r.percent(rec, "segmentation_quality", 1)
		if class, ok := displayText(rec, "segmentation_class"); ok {
			view.SegmentationClass = class
		}
	}

	view.RawReads = r.rawReads(rec)

	if dbg := rec.Record("debug_info"); dbg != nil {
		d := DebugView{}
		d.DetectionModel, _ = displayText(dbg, "detection_model")
		d.OCREngine, _ = displayText(dbg, "ocr_engine")
		if d.DetectionModel != "" || d.OCREngine != "" {
			view.Debug = &d
		}
	}
	return view
}

func (r *Renderer) Video(res *lpr.Result) VideoView {
	var rec lpr.Record
	if res != nil {
		rec = res.Record
	}

	view := VideoView{
		ExecutionTime: r.seconds(rec),
	}
	view.UniquePlates, _ = rec.Int("unique_plates")
	view.DetectionsCount, _ = rec.Int("detections_count")
	view.ProcessedFrames, _ = rec.Record("video_info").Int("processed_frames")

	summaries := rec.Records("plates_summary")
	view.Plates = make([]PlateSummaryView, 0, len(summaries))
	for _, s := range summaries {
		number, ok := PlateNumber(s)
		if !ok {
			number = r.lbl.notAvailable()
		}
		occurrences, _ := s.Int("occurrences")
		view.Plates = append(view.Plates, PlateSummaryView{
			Number:        number,
			Occurrences:   occurrences,
			MaxConfidence: r.percent(s, "max_confidence", 0),
		})
	}

	if url, ok := displayText(rec, "processed_video_url"); ok {
		view.ProcessedVideoURL = url
	}
	return view
}

func (r *Renderer) rawReads(rec lpr.Record) []RawReadView {
	reads := validReads(rec)
	if len(reads) > maxRawReads {
		reads = reads[:maxRawReads]
	}

	out := make([]RawReadView, 0, len(reads))
	for _, read := range reads {
		text := read.digits
		variant, ok := displayText(read.rec, "variant")
		if !ok {
			variant, ok = displayText(read.rec, "source")
		}
		if !ok {
			variant = "-"
		}
		conf := "-"
		if c, ok := read.rec.Float("confidence"); ok {
			conf = fmt.Sprintf("%.0f%%", c*100)
		}
		out = append(out, RawReadView{Text: text, Confidence: conf, Variant: variant})
	}
	return out
}

func (r *Renderer) percent(rec lpr.Record, key string, decimals int) string {
	v, ok := rec.Float(key)
	if !ok {
		return r.lbl.notAvailable()
	}
	return fmt.Sprintf("%.*f%%", decimals, v*100)
}

func (r *Renderer) seconds(rec lpr.Record) string {
	v, ok := rec.Float("execution_time")
	if !ok {
		return ""
	}
	return fmt.Sprintf("%.2fs", v)
}
