package main

const (
	flashSessionKey = "flash"
	slotSessionKey  = "slot"
)
