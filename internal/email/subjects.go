package email

const subjectEscalationFmt = "Unanswered lead: %s"
