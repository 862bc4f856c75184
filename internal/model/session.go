package model

// LaunchState is the lifecycle state of the remote service session
type LaunchState string

const (
	LaunchStateIdle          LaunchState = "idle"          // No session, no login in flight
	LaunchStateLaunching     LaunchState = "launching"     // Login in flight
	LaunchStateAuthenticated LaunchState = "authenticated" // Remote session live
	LaunchStateFailed        LaunchState = "failed"        // Last login failed
)
