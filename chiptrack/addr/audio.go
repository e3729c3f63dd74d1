package addr

// Register is a word offset within a voice's register block.
type Register uint32

// Synthesizer peripheral registers.
// Each voice owns VoiceStride consecutive 32-bit words starting at Base + voice*VoiceStride.
const (
	// Base is the word-addressed base of the audio peripheral.
	Base uint32 = 0x04000000

	// VoiceStride is the number of registers per voice.
	VoiceStride = 4
	// Voices is the number of synthesizer voices.
	Voices = 4

	Freq       Register = 0 // Frequency divider, Hz * 2^24 / 10^6
	PulseWidth Register = 1 // 12-bit duty value for the pulse waveform
	WaveSelect Register = 2 // Enable bit + waveform bits
	Volume     Register = 3 // 8-bit volume

	// GlobalVolume is the word offset of the master volume register, after all voice blocks.
	GlobalVolume uint32 = Voices * VoiceStride

	// RegisterCount is the size of the peripheral register file in words.
	RegisterCount = Voices*VoiceStride + 1
)

// Waveform select bits, as stored in an instrument and shifted into the WaveSelect register.
const (
	WaveNone     uint32 = 0
	WaveTriangle uint32 = 1
	WaveSawtooth uint32 = 2
	WaveSquare   uint32 = 4
	WaveNoise    uint32 = 8

	// WaveShift is the position of the waveform bits in the WaveSelect register.
	WaveShift = 16
	// WaveWidth is the number of waveform bits.
	WaveWidth = 4
	// WaveEnableBit gates the voice on.
	WaveEnableBit = 27
	// WaveEnable is the voice enable flag in the WaveSelect register.
	WaveEnable uint32 = 1 << WaveEnableBit
)

// Voice register value limits.
const (
	MaxPulseWidth uint32 = 0xFFF
	MaxVolume     uint32 = 0xFF
)

// Offset returns the word offset of a voice register relative to Base.
func Offset(voice int, reg Register) uint32 {
	return uint32(voice)*VoiceStride + uint32(reg)
}

// String names the register for logs and dumps.
func (r Register) String() string {
	switch r {
	case Freq:
		return "freq"
	case PulseWidth:
		return "pulsewidth"
	case WaveSelect:
		return "wave"
	case Volume:
		return "volume"
	default:
		return "unknown"
	}
}
