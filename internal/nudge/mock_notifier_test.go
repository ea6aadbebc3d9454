package nudge

type mockNotifier struct {
	called  bool
	subject string
	html    string
	err     error
}

func (m *mockNotifier) SendMissedSummary(subject, html string) error {
	m.called = true
	m.subject = subject
	m.html = html
	return m.err
}
