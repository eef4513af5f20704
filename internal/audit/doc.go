// Package audit delivers session lifecycle events to a pluggable [Sink]
// off the request path.
//
// A [Dispatcher] owns one worker goroutine and a bounded queue. When the
// queue is full it either drops the event and counts it, or blocks the caller
// until there is room or the caller's context ends. Close drains whatever is
// already queued before returning. A Sink that panics loses only the event it
// was handed.
//
// Sinks shipped here: [NoOpSink], [ChannelSink], [JSONWriterSink] and
// [LoggerSink] (zerolog).
//
// The package does not choose which events exist; the Engine does. It must
// not import goSession or sibling internal packages.
package audit
