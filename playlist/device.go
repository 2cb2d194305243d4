package playlist

import (
	"fmt"

	"github.com/wfunc/turnsim/state"
)

// Device is an audio output. Each concrete type adapts a different
// vendor API to the same PlayAudio call.
type Device interface {
	PlayAudio(song *Song)
	Type() DeviceType
}

type DeviceType string

const (
	Bluetooth  DeviceType = "bluetooth"
	Wired      DeviceType = "wired"
	Headphones DeviceType = "headphones"
)

func ParseDeviceType(s string) (DeviceType, error) {
	switch t := DeviceType(s); t {
	case Bluetooth, Wired, Headphones:
		return t, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownDevice)
}

type bluetoothSpeaker struct{ reporter state.Reporter }

func (b bluetoothSpeaker) PlayAudio(song *Song) {
	b.reporter.Report("[BluetoothSpeaker] Playing: %s", song)
}

func (bluetoothSpeaker) Type() DeviceType { return Bluetooth }

type wiredSpeaker struct{ reporter state.Reporter }

func (w wiredSpeaker) PlayAudio(song *Song) {
	w.reporter.Report("[WiredSpeaker] Playing: %s", song)
}

func (wiredSpeaker) Type() DeviceType { return Wired }

type headphones struct{ reporter state.Reporter }

func (h headphones) PlayAudio(song *Song) {
	h.reporter.Report("[Headphones] Playing: %s", song)
}

func (headphones) Type() DeviceType { return Headphones }

// NewDevice builds the adapter for t.
func NewDevice(t DeviceType, reporter state.Reporter) (Device, error) {
	if reporter == nil {
		reporter = state.Discard
	}
	switch t {
	case Bluetooth:
		return bluetoothSpeaker{reporter}, nil
	case Wired:
		return wiredSpeaker{reporter}, nil
	case Headphones:
		return headphones{reporter}, nil
	}
	return nil, fmt.Errorf("%q: %w", t, ErrUnknownDevice)
}
