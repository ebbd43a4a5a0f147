package swengine

import (
	"fmt"

	"github.com/Eyevinn/mp4ff/avc"
	"github.com/user/framepipe/pkg/ports"
)

// Parser is a software parsing session over Annex B byte streams. It
// scans NAL units, discovers geometry from sequence parameter sets, and
// invokes the handlers synchronously the way a hardware parser fires
// its callbacks inside packet submission.
type Parser struct {
	cfg    ports.ParserConfig
	seq    ports.SequenceHandler
	pic    ports.PictureHandler
	logger ports.Logger

	sps       *avc.SPS
	destroyed bool
}

// Parse ingests one Annex B packet and fires the handlers for the NAL
// units it carries. A handler error fails the submission.
func (p *Parser) Parse(packet []byte) error {
	if p.destroyed {
		return ErrDestroyed
	}
	nalus := avc.ExtractNalusFromByteStream(packet)
	if len(nalus) == 0 {
		return fmt.Errorf("swengine: no NAL units in packet")
	}

	for _, nalu := range nalus {
		if len(nalu) == 0 {
			continue
		}
		switch avc.GetNaluType(nalu[0]) {
		case avc.NALU_SPS:
			sps, err := avc.ParseSPSNALUnit(nalu, false)
			if err != nil {
				return fmt.Errorf("swengine: parse SPS: %w", err)
			}
			changed := p.sps == nil || sps.Width != p.sps.Width || sps.Height != p.sps.Height
			p.sps = sps
			if changed {
				if err := p.seq.ReportSequence(formatFromSPS(sps)); err != nil {
					return err
				}
			}

		case avc.NALU_IDR, avc.NALU_NON_IDR:
			if p.sps == nil {
				// A slice with no preceding sequence cannot be sized;
				// real parsers drop these too.
				p.logger.Debug("Dropping slice before first SPS")
				continue
			}
			info := pictureFromSPS(p.sps)
			info.Keyframe = avc.GetNaluType(nalu[0]) == avc.NALU_IDR
			if err := p.pic.ReportDecodedPicture(info); err != nil {
				return err
			}
		}
	}
	return nil
}

// Destroy releases the session.
func (p *Parser) Destroy() error {
	if p.destroyed {
		return ErrDestroyed
	}
	p.destroyed = true
	return nil
}

var _ ports.ParserSession = (*Parser)(nil)

func formatFromSPS(sps *avc.SPS) ports.VideoFormat {
	return ports.VideoFormat{
		Codec:              ports.CodecH264,
		Chroma:             chromaFromIDC(uint(sps.ChromaFormatIDC)),
		BitDepthLumaMinus8: int(sps.BitDepthLumaMinus8),
		Progressive:        sps.FrameMbsOnlyFlag,
		DisplayArea:        ports.Rect{Right: int(sps.Width), Bottom: int(sps.Height)},
		CodedWidth:         mbAlign(int(sps.Width)),
		CodedHeight:        mbAlign(int(sps.Height)),
	}
}

func pictureFromSPS(sps *avc.SPS) ports.PictureInfo {
	return ports.PictureInfo{
		WidthInMBs:  mbAlign(int(sps.Width)) / 16,
		HeightInMBs: mbAlign(int(sps.Height)) / 16,
	}
}

func chromaFromIDC(idc uint) ports.ChromaFormat {
	switch idc {
	case 0:
		return ports.ChromaMonochrome
	case 2:
		return ports.Chroma422
	case 3:
		return ports.Chroma444
	default:
		return ports.Chroma420
	}
}

func mbAlign(v int) int { return (v + 15) / 16 * 16 }
