package browser

import "testing"

func TestRandomDebuggingPort_StaysWithinConfiguredRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		port := RandomDebuggingPort()
		if port < minPort || port >= maxPort {
			t.Fatalf("port %d outside [%d, %d)", port, minPort, maxPort)
		}
	}
}

func TestBrowser_Quit_IsIdempotentOnZeroValue(t *testing.T) {
	b := &Browser{}
	b.Quit()
	b.Quit()
}
