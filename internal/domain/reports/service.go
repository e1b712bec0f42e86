package reports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"appraisal/internal/domain/review"
	cryptoutil "appraisal/internal/platform/crypto"
)

type Service struct {
	store   *Store
	reviews *review.Service
	crypto  *cryptoutil.Service
}

func NewService(store *Store, reviews *review.Service, crypto *cryptoutil.Service) *Service {
	return &Service{store: store, reviews: reviews, crypto: crypto}
}

func (s *Service) CycleSummary(ctx context.Context, orgID, cycleID string) (CycleSummary, error) {
	active, selfPub, managerPub, checkInPub, drafts, err := s.store.SubmissionCounts(ctx, orgID, cycleID)
	if err != nil {
		return CycleSummary{}, err
	}
	return BuildCycleSummary(cycleID, active, selfPub, managerPub, checkInPub, drafts), nil
}

// ScoreReport lists published submissions with their final scores. Rows
// whose stored average is still the sentinel fall back to live computation.
func (s *Service) ScoreReport(ctx context.Context, orgID, cycleID string) ([]ScoreRow, error) {
	rows, err := s.store.ScoreRows(ctx, orgID, cycleID)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].Score != review.AverageNotComputed {
			continue
		}
		score, err := s.reviews.WeightedReviewScore(ctx, orgID, cycleID, rows[i].RevieweeID, rows[i].ReviewerID, review.ReviewType(rows[i].ReviewType))
		if err != nil {
			return nil, err
		}
		rows[i].Score = score
	}
	return rows, nil
}

// GenerateCycleReportPDF renders the cycle score report to a PDF on disk
// and encrypts it at rest when an encryption key is configured.
func (s *Service) GenerateCycleReportPDF(ctx context.Context, orgID, cycleID string) (string, error) {
	summary, err := s.CycleSummary(ctx, orgID, cycleID)
	if err != nil {
		return "", err
	}
	rows, err := s.ScoreReport(ctx, orgID, cycleID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll("storage/reports", 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join("storage/reports", cycleID+".pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Review Cycle Report")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Cycle: %s", cycleID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Active employees: %d", summary.ActiveEmployees))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Self reviews published: %d", summary.SelfPublished))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Manager reviews published: %d", summary.ManagerPublished))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Check-ins published: %d", summary.CheckInPublished))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Scores")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		pdf.Cell(0, 7, fmt.Sprintf("%s (type %d): %.2f", row.RevieweeName, row.ReviewType, row.Score))
		pdf.Ln(6)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}

	if s.crypto != nil && s.crypto.Configured() {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", err
		}
		encrypted, err := s.crypto.Encrypt(data)
		if err != nil {
			return "", err
		}
		encryptedPath := filePath + ".enc"
		if err := os.WriteFile(encryptedPath, encrypted, 0o600); err != nil {
			return "", err
		}
		if err := os.Remove(filePath); err != nil {
			return "", err
		}
		return encryptedPath, nil
	}

	return filePath, nil
}
