package pilots

// pid is a discrete PID loop on an error signal sampled every dt.
type pid struct {
	kp, ki, kd float64
	integral   float64
	prevErr    float64
	first      bool
}

func newPID(kp, ki, kd float64) *pid {
	return &pid{kp: kp, ki: ki, kd: kd, first: true}
}

func (p *pid) update(err, dt float64) float64 {
	if p.first {
		p.prevErr = err
		p.first = false
		return p.kp * err
	}
	p.integral += err * dt
	derivative := (err - p.prevErr) / dt
	p.prevErr = err
	return p.kp*err + p.ki*p.integral + p.kd*derivative
}

func (p *pid) reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}
