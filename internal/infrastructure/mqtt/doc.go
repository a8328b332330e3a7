// Package mqtt provides MQTT client connectivity for LiveOSC Core.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// MQTT is an optional second transport beside OSC over UDP. When enabled,
// every notification the bridge emits is mirrored to a topic under
// liveosc/event/, and commands published under liveosc/command/ are
// dispatched through the same address router as OSC requests, with
// replies on liveosc/reply/. Dashboards and automations that already
// speak MQTT get the full bridge surface without a UDP socket.
//
//	OSC controller ↔ UDP        ↔ LiveOSC Core ↔ MQTT Broker ↔ dashboards
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Mirror a notification
//	topic := mqtt.Topics{}.Event("/live/song/get/tempo")
//	client.Publish(topic, []byte(`[120.5]`), 1, false)
//
//	// Receive commands
//	err = client.Subscribe(mqtt.Topics{}.AllCommands(), 1,
//	    func(topic string, payload []byte) error {
//	        address := mqtt.Topics{}.CommandAddress(topic)
//	        return dispatch(address, payload)
//	    })
package mqtt
