package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"gorm.io/gorm"

	config "yoga_studio_backend/configs"
	"yoga_studio_backend/models"
	"yoga_studio_backend/notifications"
)

const milestoneClassCount = 10

// CertDB is set from main; kept separate from the booking store so the
// milestone check can run fire-and-forget without widening that interface.
var CertDB *gorm.DB

// CheckAndGenerateCertificate awards a practice-milestone certificate once a
// student reaches ten booked classes. Every failure is logged and swallowed;
// milestones must never disturb the booking that triggered the check.
func CheckAndGenerateCertificate(user models.User) {
	if CertDB == nil {
		return
	}

	var bookedCount int64
	CertDB.Model(&models.Booking{}).
		Where("user_id = ? AND cancelled = ?", user.ID, false).
		Count(&bookedCount)

	if bookedCount < milestoneClassCount {
		return
	}

	title := fmt.Sprintf("%d Class Milestone", milestoneClassCount)

	var existing models.Certificate
	if err := CertDB.Where("user_id = ? AND title = ?", user.ID, title).First(&existing).Error; err == nil {
		return
	}

	htmlData, err := generateCertificateHTML(user.FullName, title)
	if err != nil {
		log.Printf("🔥 Failed to generate certificate HTML: %v", err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate PDF: %v", err)
		return
	}

	uploadURL, err := uploadToCloudinary(pdfBytes, user.ID.String())
	if err != nil {
		log.Printf("🔥 Failed to upload certificate to Cloudinary: %v", err)
		return
	}

	cert := models.Certificate{
		UserID:         user.ID,
		Title:          title,
		CompletionDate: time.Now(),
		CertificateURL: uploadURL,
	}
	if err := CertDB.Create(&cert).Error; err != nil {
		log.Printf("🔥 Failed to create certificate record for %s: %v", user.Email, err)
		return
	}

	log.Printf("✅ Generated milestone certificate for %s", user.Email)
	go notifications.SendEmail(user.FullName, user.Email,
		"You hit a practice milestone!",
		fmt.Sprintf("<h1>Congratulations, %s!</h1><p>You've booked %d classes with us. Your certificate is here: <a href='%s'>View Certificate</a></p>",
			user.FullName, milestoneClassCount, uploadURL))
}

func generateCertificateHTML(studentName, title string) (string, error) {
	tmpl, err := template.ParseFiles("templates/certificate.html")
	if err != nil {
		return "", err
	}

	data := struct {
		StudentName    string
		Title          string
		CompletionDate string
	}{
		StudentName:    studentName,
		Title:          title,
		CompletionDate: time.Now().Format("January 2, 2006"),
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadToCloudinary(fileBytes []byte, userID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("certificates/%s_%s", userID, uuid.New().String()),
		Folder:       "yoga_studio_certificates",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
