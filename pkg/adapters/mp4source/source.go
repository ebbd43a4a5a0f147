// Package mp4source extracts H.264 elementary stream packets from MP4
// containers. Each packet is one access unit in Annex B form, with the
// parameter sets from the avcC record prepended to keyframes so any
// packet boundary starting at a keyframe is a valid decode entry point.
package mp4source

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/avc"
	"github.com/Eyevinn/mp4ff/mp4"
)

// Packet is one Annex B access unit with its timing.
type Packet struct {
	Data        []byte
	TimestampMs int
	DurationMs  int
	Keyframe    bool
}

// Info describes the video track of a container.
type Info struct {
	Width       int
	Height      int
	Progressive bool
	BitDepth    int
	Fragmented  bool
	PacketCount int
}

var startCode = []byte{0, 0, 0, 1}

// ReadFile extracts all packets from an MP4 file.
func ReadFile(path string) ([]Packet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mp4source: open: %w", err)
	}
	defer f.Close()
	return ReadFrom(f)
}

// ReadBytes extracts all packets from MP4 data held in memory.
func ReadBytes(data []byte) ([]Packet, error) {
	return ReadFrom(bytes.NewReader(data))
}

// ReadFrom extracts all packets from an MP4 read from rs.
func ReadFrom(rs io.ReadSeeker) ([]Packet, error) {
	file, err := mp4.DecodeFile(rs)
	if err != nil {
		return nil, fmt.Errorf("mp4source: decode container: %w", err)
	}
	track, err := findVideoTrack(file)
	if err != nil {
		return nil, err
	}
	if file.IsFragmented() {
		return extractFragmented(file, track)
	}
	return extractProgressive(rs, track)
}

// ProbeFile reports the track geometry of an MP4 file without
// extracting its samples.
func ProbeFile(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("mp4source: open: %w", err)
	}
	defer f.Close()
	return Probe(f)
}

// Probe reports the track geometry of an MP4 read from rs.
func Probe(rs io.ReadSeeker) (Info, error) {
	file, err := mp4.DecodeFile(rs)
	if err != nil {
		return Info{}, fmt.Errorf("mp4source: decode container: %w", err)
	}
	track, err := findVideoTrack(file)
	if err != nil {
		return Info{}, err
	}
	if track.avcC == nil || len(track.avcC.SPSnalus) == 0 {
		return Info{}, fmt.Errorf("mp4source: video track carries no SPS")
	}
	sps, err := avc.ParseSPSNALUnit(track.avcC.SPSnalus[0], false)
	if err != nil {
		return Info{}, fmt.Errorf("mp4source: parse SPS: %w", err)
	}

	info := Info{
		Width:       int(sps.Width),
		Height:      int(sps.Height),
		Progressive: sps.FrameMbsOnlyFlag,
		BitDepth:    int(sps.BitDepthLumaMinus8) + 8,
		Fragmented:  file.IsFragmented(),
	}
	if track.stbl != nil && track.stbl.Stsz != nil {
		info.PacketCount = int(track.stbl.Stsz.SampleNumber)
	}
	return info, nil
}

// videoTrack collects the boxes packet extraction needs, found once
// whether the container is progressive or fragmented.
type videoTrack struct {
	id        uint32
	timescale uint32
	avcC      *mp4.AvcCBox
	stbl      *mp4.StblBox
	trex      *mp4.TrexBox
}

func findVideoTrack(file *mp4.File) (*videoTrack, error) {
	moov := file.Moov
	if file.IsFragmented() && file.Init != nil {
		moov = file.Init.Moov
	}
	if moov == nil {
		return nil, fmt.Errorf("mp4source: no moov box")
	}

	for _, trak := range moov.Traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
			continue
		}
		track := &videoTrack{id: trak.Tkhd.TrackID, timescale: 1000}
		if trak.Mdia.Mdhd != nil {
			track.timescale = trak.Mdia.Mdhd.Timescale
		}
		if trak.Mdia.Minf != nil && trak.Mdia.Minf.Stbl != nil {
			track.stbl = trak.Mdia.Minf.Stbl
			if track.stbl.Stsd != nil {
				for _, child := range track.stbl.Stsd.Children {
					if entry, ok := child.(*mp4.VisualSampleEntryBox); ok {
						track.avcC = entry.AvcC
					}
				}
			}
		}
		if moov.Mvex != nil {
			for _, trex := range moov.Mvex.Trexs {
				if trex.TrackID == track.id {
					track.trex = trex
					break
				}
			}
		}
		if track.avcC == nil {
			return nil, fmt.Errorf("mp4source: video track is not AVC")
		}
		return track, nil
	}
	return nil, fmt.Errorf("mp4source: no video track found")
}

func extractProgressive(rs io.ReadSeeker, track *videoTrack) ([]Packet, error) {
	stbl := track.stbl
	if stbl == nil || stbl.Stsz == nil || stbl.Stsc == nil {
		return nil, fmt.Errorf("mp4source: incomplete sample table")
	}

	syncSamples := make(map[uint32]bool)
	if stbl.Stss != nil {
		for _, nr := range stbl.Stss.SampleNumber {
			syncSamples[nr] = true
		}
	}

	prefix := parameterSetPrefix(track.avcC)
	var packets []Packet
	for nr := uint32(1); nr <= stbl.Stsz.SampleNumber; nr++ {
		data, err := readSample(rs, stbl, nr)
		if err != nil {
			return nil, fmt.Errorf("mp4source: sample %d: %w", nr, err)
		}

		var decodeTime uint64
		var dur uint32
		if stbl.Stts != nil {
			decodeTime, dur = stbl.Stts.GetDecodeTime(nr)
		}
		keyframe := syncSamples[nr] || len(syncSamples) == 0

		packets = append(packets, Packet{
			Data:        buildPacket(prefix, data, keyframe),
			TimestampMs: toMillis(decodeTime, track.timescale),
			DurationMs:  toMillis(uint64(dur), track.timescale),
			Keyframe:    keyframe,
		})
	}
	return packets, nil
}

func extractFragmented(file *mp4.File, track *videoTrack) ([]Packet, error) {
	prefix := parameterSetPrefix(track.avcC)
	var packets []Packet

	for _, seg := range file.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd.TrackID != track.id {
					continue
				}
				var decodeTime uint64
				if traf.Tfdt != nil {
					decodeTime = traf.Tfdt.BaseMediaDecodeTime()
				}
				samples, err := frag.GetFullSamples(track.trex)
				if err != nil {
					return nil, fmt.Errorf("mp4source: fragment samples: %w", err)
				}
				for i, sample := range samples {
					keyframe := sample.Flags == mp4.SyncSampleFlags || (i == 0 && len(packets) == 0)
					packets = append(packets, Packet{
						Data:        buildPacket(prefix, sample.Data, keyframe),
						TimestampMs: toMillis(decodeTime, track.timescale),
						DurationMs:  toMillis(uint64(sample.Dur), track.timescale),
						Keyframe:    keyframe,
					})
					decodeTime += uint64(sample.Dur)
				}
			}
		}
	}
	return packets, nil
}

// readSample locates one sample through the chunk tables and reads it.
func readSample(rs io.ReadSeeker, stbl *mp4.StblBox, nr uint32) ([]byte, error) {
	chunkNr, firstInChunk, err := stbl.Stsc.ChunkNrFromSampleNr(int(nr))
	if err != nil {
		return nil, fmt.Errorf("chunk lookup: %w", err)
	}

	var offset uint64
	switch {
	case stbl.Stco != nil:
		offset, err = stbl.Stco.GetOffset(chunkNr)
		if err != nil {
			return nil, fmt.Errorf("chunk offset: %w", err)
		}
	case stbl.Co64 != nil:
		if chunkNr < 1 || chunkNr > len(stbl.Co64.ChunkOffset) {
			return nil, fmt.Errorf("chunk %d out of range", chunkNr)
		}
		offset = stbl.Co64.ChunkOffset[chunkNr-1]
	default:
		return nil, fmt.Errorf("no chunk offset box")
	}

	for s := uint32(firstInChunk); s < nr; s++ {
		offset += uint64(stbl.Stsz.GetSampleSize(int(s)))
	}

	if _, err := rs.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}
	data := make([]byte, stbl.Stsz.GetSampleSize(int(nr)))
	if _, err := io.ReadFull(rs, data); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return data, nil
}

// parameterSetPrefix renders the avcC parameter sets as Annex B.
func parameterSetPrefix(avcC *mp4.AvcCBox) []byte {
	var prefix []byte
	for _, sps := range avcC.SPSnalus {
		prefix = append(prefix, startCode...)
		prefix = append(prefix, sps...)
	}
	for _, pps := range avcC.PPSnalus {
		prefix = append(prefix, startCode...)
		prefix = append(prefix, pps...)
	}
	return prefix
}

func buildPacket(prefix, sample []byte, keyframe bool) []byte {
	annexB := lengthPrefixedToAnnexB(sample)
	if !keyframe {
		return annexB
	}
	packet := make([]byte, 0, len(prefix)+len(annexB))
	packet = append(packet, prefix...)
	return append(packet, annexB...)
}

// lengthPrefixedToAnnexB rewrites the 4-byte length prefixes the mdat
// samples carry into start codes.
func lengthPrefixedToAnnexB(sample []byte) []byte {
	var out []byte
	for offset := 0; offset+4 <= len(sample); {
		n := int(sample[offset])<<24 | int(sample[offset+1])<<16 |
			int(sample[offset+2])<<8 | int(sample[offset+3])
		offset += 4
		if n < 0 || offset+n > len(sample) {
			break
		}
		out = append(out, startCode...)
		out = append(out, sample[offset:offset+n]...)
		offset += n
	}
	return out
}

func toMillis(t uint64, timescale uint32) int {
	if timescale == 0 {
		return 0
	}
	return int(t * 1000 / uint64(timescale))
}
