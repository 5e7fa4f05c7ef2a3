// package playback owns the playing track and fans its state out to render targets.
//
// A single [Owner] holds position, duration and play state. Targets (headless
// audio, the in-terminal panel, the full-screen browser embed) only receive
// commands; exactly one of them is active and audible at a time.
package playback
