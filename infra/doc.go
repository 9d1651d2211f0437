// Package infra contains technical adapters: dataset readers, the MQTT
// result publisher, metrics exporters and error monitoring. These packages
// should depend only on the interfaces defined in the core packages.
package infra
