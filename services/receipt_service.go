package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	config "github.com/anjiri1684/medicamp/configs"
	"github.com/anjiri1684/medicamp/models"
	"github.com/anjiri1684/medicamp/notifications"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// GenerateAndEmailReceipt renders a PDF receipt for a completed payment,
// uploads it and emails the link to the participant. Best-effort: the payment
// record is already committed and nothing here may undo or block it.
func GenerateAndEmailReceipt(payment models.Payment) {
	if config.Config("CLOUDINARY_URL") == "" {
		log.Println("⚠️ Receipt generation skipped: Cloudinary not configured.")
		return
	}

	htmlData, err := generateReceiptHTML(payment)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt HTML for payment %s: %v", payment.ID, err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt PDF for payment %s: %v", payment.ID, err)
		return
	}

	receiptURL, err := uploadToCloudinary(pdfBytes, payment.ID.String())
	if err != nil {
		log.Printf("🔥 Failed to upload receipt for payment %s: %v", payment.ID, err)
		return
	}

	notifications.SendEmail("", payment.Email, "Your Payment Receipt",
		fmt.Sprintf("<h1>Payment Received</h1><p>Thank you for your payment of $%.2f for <b>%s</b>.</p><p><a href='%s'>Download your receipt</a></p><p>Transaction ID: %s</p>",
			payment.Amount, payment.CampName, receiptURL, payment.TransactionID))

	log.Printf("✅ Generated and emailed receipt for payment %s.", payment.ID)
}

func generateReceiptHTML(payment models.Payment) (string, error) {
	tmpl, err := template.ParseFiles("templates/receipt.html")
	if err != nil {
		return "", err
	}

	data := struct {
		CampName      string
		Email         string
		Amount        string
		TransactionID string
		PaymentMethod string
		PaidAt        string
	}{
		CampName:      payment.CampName,
		Email:         payment.Email,
		Amount:        fmt.Sprintf("%.2f", payment.Amount),
		TransactionID: payment.TransactionID,
		PaymentMethod: payment.PaymentMethod,
		PaidAt:        payment.CreatedAt.Format("January 2, 2006 3:04 PM"),
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

func uploadToCloudinary(fileBytes []byte, paymentID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("receipts/%s_%s", paymentID, uuid.New().String()),
		Folder:       "medicamp_receipts",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
