package lowpipeline

// ChannelSink forwards events into a channel, for a caller that wants to
// drive a UI (internal/uiprogress) off the same event stream Run emits.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}
