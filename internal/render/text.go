package render

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteImage prints an image view as aligned plain text for terminals.
func WriteImage(w io.Writer, v ImageView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Plates found:\t%d\n", v.Count)
	if v.ExecutionTime != "" {
		fmt.Fprintf(tw, "Execution time:\t%s\n", v.ExecutionTime)
	}
	if v.NotFound != nil {
		writeNotFound(tw, v.NotFound, "")
		return tw.Flush()
	}

	for _, p := range v.Plates {
		fmt.Fprintf(tw, "\nPlate #%d\t[%s]\n", p.Index+1, p.Badge.Label)
		if p.NotFound != nil {
			writeNotFound(tw, p.NotFound, "  ")
		} else {
			fmt.Fprintf(tw, "  Number:\t%s\n", p.Number)
		}
		fmt.Fprintf(tw, "  Governorate:\t%s (%s)\n", p.Governorate, p.GovernorateCode)
		fmt.Fprintf(tw, "  Vehicle type:\t%s\n", p.VehicleType)
		fmt.Fprintf(tw, "  Plate type:\t%s\n", p.PlateType)
		fmt.Fprintf(tw, "  Plate color:\t%s\n", p.PlateColor)
		fmt.Fprintf(tw, "  Detection:\t%s\n", p.DetectionConfidence)
		fmt.Fprintf(tw, "  OCR:\t%s\n", p.OCRConfidence)
		if p.VehicleConfidence != "" {
			fmt.Fprintf(tw, "  Vehicle:\t%s\n", p.VehicleConfidence)
		}
		if p.SegmentationQuality != "" {
			fmt.Fprintf(tw, "  Segmentation:\t%s %s\n", p.SegmentationQuality, p.SegmentationClass)
		}
		if p.Debug != nil {
			fmt.Fprintf(tw, "  Models:\t%s / %s\n", p.Debug.DetectionModel, p.Debug.OCREngine)
		}
		for _, read := range p.RawReads {
			fmt.Fprintf(tw, "    %s\t%s\t%s\n", read.Text, read.Confidence, read.Variant)
		}
	}

	if v.OverlayURL != "" {
		fmt.Fprintf(tw, "\nOverlay:\t%s\n", v.OverlayURL)
	}
	return tw.Flush()
}

func WriteVideo(w io.Writer, v VideoView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Unique plates:\t%d\n", v.UniquePlates)
	fmt.Fprintf(tw, "Detections:\t%d\n", v.DetectionsCount)
	fmt.Fprintf(tw, "Processed frames:\t%d\n", v.ProcessedFrames)
	if v.ExecutionTime != "" {
		fmt.Fprintf(tw, "Execution time:\t%s\n", v.ExecutionTime)
	}

	if len(v.Plates) > 0 {
		fmt.Fprintln(tw)
		for _, p := range v.Plates {
			fmt.Fprintf(tw, "  %s\tx%d\t%s\n", p.Number, p.Occurrences, p.MaxConfidence)
		}
	}
	if v.ProcessedVideoURL != "" {
		fmt.Fprintf(tw, "\nProcessed video:\t%s\n", v.ProcessedVideoURL)
	}
	return tw.Flush()
}

func writeNotFound(w io.Writer, nf *NotFound, indent string) {
	fmt.Fprintf(w, "%s%s\n", indent, nf.Message)
	for _, s := range nf.Suggestions {
		fmt.Fprintf(w, "%s  - %s\n", indent, s)
	}
}
