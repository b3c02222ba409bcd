package bot

// User-facing strings. The bot speaks Russian, like the HR panel content.
const (
	btnDocuments = "Мои документы"
	btnQuizzes   = "Квизы"
	btnAbout     = "О компании"
	btnHelp      = "Помощь"

	textGreeting       = "Здравствуйте, %s! Чем могу помочь?"
	textRegistered     = "Здравствуйте! Ваша заявка на доступ принята и ожидает подтверждения от HR-менеджера."
	textPendingApprove = "Ваш доступ все еще ожидает подтверждения. Пожалуйста, ожидайте."

	textNoDepartment = "Вам еще не назначено подразделение. Обратитесь к HR-менеджеру."

	textNoDocuments   = "Для вашего подразделения пока нет документов."
	textDocumentsList = "Вот список доступных вам документов:"
	textDocDeleted    = "Ошибка: документ был удален."
	textDocFileLost   = "Ошибка: файл документа не найден на сервере."

	textNoQuizzes     = "Для вашего подразделения пока нет тестов."
	textQuizzesList   = "Вот список доступных вам тестов:"
	textQuizTaken     = "Вы уже проходили этот тест."
	textQuizEmpty     = "В этом тесте пока нет вопросов."
	textQuizGone      = "Этот тест вам недоступен."
	textQuizChanged   = "Тест был изменен администратором. Пожалуйста, начните его заново."
	textQuizNotSaved  = "Не удалось сохранить результат теста. Попробуйте пройти его еще раз."
	textQuestion      = "Вопрос %d/%d:\n\n%s"
	textQuizFinished  = "Тест завершён!\n\nВаш результат: %d из %d правильных ответов."
	textQuizTakenMark = "✅ Пройден"
	textQuizOpenMark  = "❌ Не пройден"

	textNoAbout      = "Информация о компании пока не добавлена."
	textPickSection  = "Выберите интересующий вас раздел:"
	textSectionGone  = "Раздел был удален."
	textBackToAbout  = "🔙 Назад к списку"
	textHelpFallback = "Раздел \"Помощь\""
)
