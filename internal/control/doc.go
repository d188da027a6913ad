// Package control provides the single-axis feedback controllers used by the
// navigation computer.
//
//   - [PID]: Proportional-Integral-Derivative controller with a fixed period
//
// One controller instance drives one rotational axis. Controllers are fed the
// current error once per tick through [Controller.Control].
//
// # Usage
//
//	pitch, err := control.NewPID(10, 0, 10, 0.1) // Kp, Ki, Kd, period
//	if err != nil {
//	    return err
//	}
//	rate := pitch.Control(angleError)
//
// [PID] also supports live tuning through GetParams/SetParam.
package control
