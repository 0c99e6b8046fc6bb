package matrix

// Dashboard places the three environment gauges.
type Dashboard struct {
	Temperature Gauge
	Humidity    Gauge
	Pressure    Gauge
}

// DefaultDashboard shows temperature in column 7 (-10..50 °C), humidity in
// column 5 (0..100 %) and pressure in column 3 (975..1016 hPa).
var DefaultDashboard = Dashboard{
	Temperature: Gauge{Column: 7, Lower: -10, Upper: 50},
	Humidity:    Gauge{Column: 5, Lower: 0, Upper: 100},
	Pressure:    Gauge{Column: 3, Lower: 975, Upper: 1016},
}

// RenderBar draws one bar gauge in logical column col. A nil setpoint draws no
// marker.
func (d *Display) RenderBar(col int, reading float64, setpoint *float64, lower, upper float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	renderBar(view{buf: d.buf, o: d.orientation}, d.gauges, col, reading, setpoint, lower, upper)
	return d.refresh()
}

// DrawDashboard clears the display and draws the temperature and humidity
// gauges with their setpoint markers and the pressure gauge.
func (d *Display) DrawDashboard(r Reading, sp Setpoint) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.clear(d.gauges.Blank)
	v := view{buf: d.buf, o: d.orientation}
	g := d.dashboard
	renderBar(v, d.gauges, g.Temperature.Column, r.Temperature, &sp.Temperature, g.Temperature.Lower, g.Temperature.Upper)
	renderBar(v, d.gauges, g.Humidity.Column, r.Humidity, &sp.Humidity, g.Humidity.Lower, g.Humidity.Upper)
	renderBar(v, d.gauges, g.Pressure.Column, r.Pressure, nil, g.Pressure.Lower, g.Pressure.Upper)
	return d.refresh()
}

// Dashboard returns the gauge placement of the session.
func (d *Display) Dashboard() Dashboard {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dashboard
}
