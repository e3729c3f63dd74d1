package audio

// Controls are the debugging knobs front ends can drive.
type Controls interface {
	ToggleChannel(channel int)
	SoloChannel(channel int)
	UnmuteAll()
	GetChannelStatus() (ch0, ch1, ch2, ch3 bool)
	GetChannelVolumes() (ch0, ch1, ch2, ch3 uint8)
}

var _ Controls = (*Peripheral)(nil)
