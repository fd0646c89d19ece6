package engine

import "github.com/edgecore/wedge/lifecycle"

// HandleConfiguration is the configuration callback (C7): registered with
// the transport as a transport.ConfigurationCallback, invoked on a
// transport-owned thread whenever the cloud delivers a new document
// (spec §4.4). It must not perform long work — it only validates the
// envelope, stages the document, and requests a transition.
func (c *Context) HandleConfiguration(topic string, value []byte) {
	if _, ok := ParseConfigurationEnvelope(value); !ok {
		if c.Logger != nil {
			c.Logger.WithField("topic", topic).Warn("configuration callback: rejected malformed envelope")
		}
		return
	}
	c.SetPendingConfig(value)
	NewConfigurator(c).UpdateProcessState(lifecycle.Applying)
}
