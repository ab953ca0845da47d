// Package simulator provides in-memory stand-ins for the device hardware:
// a WiFi radio, a touch panel and a battery gauge. They let the runtime,
// the console and the tests run on a workstation.
package simulator
